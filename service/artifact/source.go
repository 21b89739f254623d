/*
 * @module service/artifact/source
 * @description 制品来源：本地文件、数据库、Redis，按名称解析为制品字节
 * @architecture 策略模式 - 统一的 Source 接口
 * @documentReference DESIGN.md
 * @stateFlow 启动 -> 选择来源 -> Open(name) -> 制品字节
 * @rules 仅在进程启动时读取；找不到制品必须返回 ErrNotFound
 * @dependencies gorm.io/gorm, github.com/go-redis/redis/v8
 * @refs service/artifact/loader.go, service/init.go
 */

package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"grain-quality-service/service/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ErrNotFound 制品不存在
var ErrNotFound = errors.New("artifact not found")

// Source 制品来源
type Source interface {
	// Open 读取指定名称的制品
	Open(ctx context.Context, name string) ([]byte, error)
	// Describe 用于日志的来源描述
	Describe() string
}

// FileSource 本地目录来源
type FileSource struct {
	Dir string
}

// NewFileSource 创建本地目录来源
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Open 实现 Source
func (s *FileSource) Open(ctx context.Context, name string) ([]byte, error) {
	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("读取制品文件失败 %s: %w", path, err)
	}
	return data, nil
}

// Describe 实现 Source
func (s *FileSource) Describe() string {
	return "file://" + s.Dir
}

// DatabaseSource 数据库来源，读取 model_artifacts 表中版本号最大的记录
type DatabaseSource struct {
	db *gorm.DB
}

// NewDatabaseSource 创建数据库来源
func NewDatabaseSource(db *gorm.DB) *DatabaseSource {
	return &DatabaseSource{db: db}
}

// Open 实现 Source
func (s *DatabaseSource) Open(ctx context.Context, name string) ([]byte, error) {
	var record models.ModelArtifact
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("version DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("查询制品 %s 失败: %w", name, err)
	}
	return []byte(record.Payload), nil
}

// Describe 实现 Source
func (s *DatabaseSource) Describe() string {
	return "database://model_artifacts"
}

// RedisSource Redis 来源，键为 prefix + name
type RedisSource struct {
	client redis.Cmdable
	prefix string
}

// NewRedisSource 创建 Redis 来源
func NewRedisSource(client redis.Cmdable, prefix string) *RedisSource {
	return &RedisSource{client: client, prefix: prefix}
}

// Key 制品对应的 Redis 键
func (s *RedisSource) Key(name string) string {
	return s.prefix + name
}

// Open 实现 Source
func (s *RedisSource) Open(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.Key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Key(name))
		}
		return nil, fmt.Errorf("读取 Redis 制品 %s 失败: %w", s.Key(name), err)
	}
	return data, nil
}

// Describe 实现 Source
func (s *RedisSource) Describe() string {
	return "redis://" + s.prefix
}
