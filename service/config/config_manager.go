/*
 * @module service/config/config_manager
 * @description 配置管理器，负责配置加载、环境变量覆盖和配置验证
 * @architecture 分层架构 - 基础设施层
 * @documentReference DESIGN.md
 * @stateFlow 默认配置 -> 配置文件 -> 环境变量覆盖 -> 配置验证
 * @rules 进程启动时加载一次，加载后只读
 * @dependencies gopkg.in/yaml.v3, github.com/spf13/cast
 * @refs main.go, service/init.go
 */

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// 制品来源类型
const (
	SourceFile     = "file"
	SourceDatabase = "database"
	SourceRedis    = "redis"
)

// ApplicationConfig 应用配置
type ApplicationConfig struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
	Artifacts ArtifactsConfig `json:"artifacts" yaml:"artifacts"`
	Features  FeaturesConfig  `json:"features" yaml:"features"`
	Database  DatabaseConfig  `json:"database" yaml:"database"`
	Redis     RedisConfig     `json:"redis" yaml:"redis"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host        string     `json:"host" yaml:"host"`
	Port        int        `json:"port" yaml:"port"`
	BaseContext string     `json:"base_context" yaml:"base_context"`
	CORS        CORSConfig `json:"cors" yaml:"cors"`
}

// Addr 返回监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig CORS配置
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers" yaml:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `json:"max_age" yaml:"max_age"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// ArtifactsConfig 模型制品配置
type ArtifactsConfig struct {
	Source        string `json:"source" yaml:"source"` // file, database, redis
	Dir           string `json:"dir" yaml:"dir"`
	ModelName     string `json:"model_name" yaml:"model_name"`
	ProcessorName string `json:"processor_name" yaml:"processor_name"`
}

// FeaturesConfig 期望特征配置
// Expected 仅在处理器未记录有效特征时作为兜底，并在启动时用于一致性校验
type FeaturesConfig struct {
	Expected []string `json:"expected" yaml:"expected"`
	Strict   bool     `json:"strict" yaml:"strict"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	URL      string `json:"url" yaml:"url"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Name     string `json:"name" yaml:"name"`
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode"`
	Schema   string `json:"schema" yaml:"schema"`
}

// DSN 返回 PostgreSQL 连接串，URL 优先
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Schema)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// Addr 返回 Redis 地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ConfigManager 配置管理器
type ConfigManager struct {
	configFilePaths []string
	getenv          func(string) string
}

// NewConfigManager 创建配置管理器，paths 为候选配置文件路径，按顺序尝试
func NewConfigManager(paths ...string) *ConfigManager {
	if len(paths) == 0 {
		paths = []string{"config.yaml", "config.yml", "config.json"}
	}
	return &ConfigManager{
		configFilePaths: paths,
		getenv:          os.Getenv,
	}
}

// WithEnv 替换环境变量读取函数
func (c *ConfigManager) WithEnv(getenv func(string) string) *ConfigManager {
	c.getenv = getenv
	return c
}

// LoadConfig 加载配置
func (c *ConfigManager) LoadConfig() (*ApplicationConfig, error) {
	// 1. 默认配置
	config := DefaultConfig()

	// 2. 配置文件（不存在时沿用默认配置）
	if err := c.loadConfigFromFile(config); err != nil {
		return nil, err
	}

	// 3. 应用环境变量覆盖
	c.applyEnvironmentOverrides(config)

	// 4. 验证配置
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return config, nil
}

// DefaultConfig 默认配置
func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 23300,
			CORS: CORSConfig{
				AllowedOrigins: []string{
					"http://202.112.170.143:28765",
					"http://202.112.170.143",
					"http://localhost:5173",
					"http://localhost:3000",
					"http://localhost",
				},
				AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: true,
				MaxAge:           300,
			},
		},
		Logging: LoggingConfig{Level: "info"},
		Artifacts: ArtifactsConfig{
			Source:        SourceFile,
			Dir:           "models",
			ModelName:     "ensemble_model.json",
			ProcessorName: "data_processor.json",
		},
		Features: FeaturesConfig{
			Expected: []string{"Gluten_content", "Protein_content", "Hardness"},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "postgres",
			SSLMode: "disable",
			Schema:  "public",
		},
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      6379,
			KeyPrefix: "grain-quality:artifact:",
		},
	}
}

func (c *ConfigManager) loadConfigFromFile(config *ApplicationConfig) error {
	for _, path := range c.configFilePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("读取配置文件失败 %s: %w", path, err)
		}

		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, config)
		case ".json":
			err = json.Unmarshal(data, config)
		default:
			return fmt.Errorf("不支持的配置文件格式: %s", ext)
		}
		if err != nil {
			return fmt.Errorf("解析配置文件失败 %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// 应用环境变量覆盖
func (c *ConfigManager) applyEnvironmentOverrides(config *ApplicationConfig) {
	env := c.getenv

	if val := env("LISTEN_HOST"); val != "" {
		config.Server.Host = val
	}
	if val := env("LISTEN_PORT"); val != "" {
		config.Server.Port = cast.ToInt(val)
	}
	if val := env("BASE_CONTEXT"); val != "" {
		config.Server.BaseContext = val
	}
	if val := env("CORS_ALLOWED_ORIGINS"); val != "" {
		config.Server.CORS.AllowedOrigins = splitList(val)
	}
	if val := env("LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}

	if val := env("ARTIFACT_SOURCE"); val != "" {
		config.Artifacts.Source = strings.ToLower(val)
	}
	if val := env("ARTIFACT_DIR"); val != "" {
		config.Artifacts.Dir = val
	}
	if val := env("MODEL_NAME"); val != "" {
		config.Artifacts.ModelName = val
	}
	if val := env("PROCESSOR_NAME"); val != "" {
		config.Artifacts.ProcessorName = val
	}

	if val := env("EXPECTED_FEATURES"); val != "" {
		config.Features.Expected = splitList(val)
	}
	if val := env("STRICT_FEATURES"); val != "" {
		config.Features.Strict = cast.ToBool(val)
	}

	if val := env("DATABASE_URL"); val != "" {
		config.Database.URL = val
	}
	if val := env("DB_HOST"); val != "" {
		config.Database.Host = val
	}
	if val := env("DB_PORT"); val != "" {
		config.Database.Port = cast.ToInt(val)
	}
	if val := env("DB_USER"); val != "" {
		config.Database.User = val
	}
	if val := env("DB_PASSWORD"); val != "" {
		config.Database.Password = val
	}
	if val := env("DB_NAME"); val != "" {
		config.Database.Name = val
	}
	if val := env("DB_SSLMODE"); val != "" {
		config.Database.SSLMode = val
	}
	if val := env("DB_SCHEMA"); val != "" {
		config.Database.Schema = val
	}

	if val := env("REDIS_HOST"); val != "" {
		config.Redis.Host = val
	}
	if val := env("REDIS_PORT"); val != "" {
		config.Redis.Port = cast.ToInt(val)
	}
	if val := env("REDIS_PASSWORD"); val != "" {
		config.Redis.Password = val
	}
	if val := env("REDIS_DB"); val != "" {
		config.Redis.DB = cast.ToInt(val)
	}
	if val := env("REDIS_KEY_PREFIX"); val != "" {
		config.Redis.KeyPrefix = val
	}
}

// 验证配置
func validateConfig(config *ApplicationConfig) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("服务器端口无效: %d", config.Server.Port)
	}

	switch config.Artifacts.Source {
	case SourceFile, SourceDatabase, SourceRedis:
	default:
		return fmt.Errorf("不支持的制品来源: %q", config.Artifacts.Source)
	}

	if config.Artifacts.ModelName == "" || config.Artifacts.ProcessorName == "" {
		return fmt.Errorf("模型与处理器制品名称不能为空")
	}

	for _, name := range config.Features.Expected {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("期望特征名称不能为空")
		}
	}

	return nil
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
