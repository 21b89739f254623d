/*
 * @module service/init
 * @description 服务初始化模块，负责选择制品来源、加载制品并装配预测服务
 * @architecture 分层架构 - 服务层，依赖显式注入而非全局变量
 * @documentReference DESIGN.md
 * @stateFlow 配置 -> 制品来源(file/database/redis) -> 加载制品 -> 预测服务 -> 路由
 * @rules 制品加载失败时返回错误，由 main 终止进程；加载完成后所有依赖只读
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, github.com/go-redis/redis/v8, prometheus
 * @refs main.go, api/routes.go
 */

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"grain-quality-service/service/artifact"
	"grain-quality-service/service/config"
	"grain-quality-service/service/models"
	"grain-quality-service/service/prediction"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Services 启动后装配完成的服务集合
type Services struct {
	Config     *config.ApplicationConfig
	Artifacts  *artifact.Bundle
	Prediction *prediction.Service
	Metrics    *prediction.Metrics

	closers []func() error
}

// Close 释放制品来源占用的连接
func (s *Services) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Bootstrap 按配置打开制品来源并初始化服务
func Bootstrap(ctx context.Context, cfg *config.ApplicationConfig, reg prometheus.Registerer) (*Services, error) {
	src, closeFn, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	services, err := BootstrapWithSource(ctx, cfg, src, reg)
	if err != nil {
		if closeFn != nil {
			closeFn()
		}
		return nil, err
	}
	if closeFn != nil {
		services.closers = append(services.closers, closeFn)
	}
	return services, nil
}

// BootstrapWithSource 从给定来源加载制品并装配预测服务
func BootstrapWithSource(ctx context.Context, cfg *config.ApplicationConfig, src artifact.Source, reg prometheus.Registerer) (*Services, error) {
	slog.Info("开始加载模型制品", "source", src.Describe())

	bundle, err := artifact.Load(ctx, src, artifact.LoadOptions{
		ModelName:        cfg.Artifacts.ModelName,
		ProcessorName:    cfg.Artifacts.ProcessorName,
		FallbackFeatures: cfg.Features.Expected,
		StrictFeatures:   cfg.Features.Strict,
		Logger:           slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("加载模型制品失败: %w", err)
	}

	metrics := prediction.NewMetrics(reg)
	metrics.RecordArtifacts(bundle.Source, bundle.Model.Kind(), len(bundle.ExpectedFeatures))

	predictionService := prediction.NewService(
		bundle.ExpectedFeatures,
		bundle.Processor,
		bundle.Model,
		prediction.WithMetrics(metrics),
		prediction.WithLogger(slog.Default()),
	)

	slog.Info("服务初始化完成", "expected_features", bundle.ExpectedFeatures)

	return &Services{
		Config:     cfg,
		Artifacts:  bundle,
		Prediction: predictionService,
		Metrics:    metrics,
	}, nil
}

// OpenSource 根据配置创建制品来源，返回的关闭函数可能为 nil
func OpenSource(ctx context.Context, cfg *config.ApplicationConfig) (artifact.Source, func() error, error) {
	switch cfg.Artifacts.Source {
	case config.SourceFile, "":
		return artifact.NewFileSource(cfg.Artifacts.Dir), nil, nil

	case config.SourceDatabase:
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("获取数据库连接失败: %w", err)
		}
		return artifact.NewDatabaseSource(db), sqlDB.Close, nil

	case config.SourceRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("Redis连接失败: %w", err)
		}
		slog.Info("Redis连接成功", "addr", cfg.Redis.Addr())
		return artifact.NewRedisSource(client, cfg.Redis.KeyPrefix), client.Close, nil
	}

	return nil, nil, fmt.Errorf("不支持的制品来源: %q", cfg.Artifacts.Source)
}

// openDatabase 连接数据库并迁移制品表
func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	slog.Info("数据库连接成功")

	if err := db.AutoMigrate(&models.ModelArtifact{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}
