package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grain-quality-service/api"
	_ "grain-quality-service/docs"
	"grain-quality-service/logger"
	"grain-quality-service/service"
	"grain-quality-service/service/config"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title 谷物品质预测服务 API
// @version 1.0
// @description 基于面筋含量、蛋白质含量和硬度的单样本品质预测服务
// @BasePath /swagger/grain-quality-service
func main() {
	cfg, err := config.NewConfigManager().LoadConfig()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := service.Bootstrap(ctx, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		slog.Error("服务初始化失败", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if cfg.Server.BaseContext != "" {
		mux.Route(cfg.Server.BaseContext, func(r chi.Router) {
			api.InitRoute(r, services)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux, services)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	s := daprd.NewServiceWithMux(cfg.Server.Addr(), mux)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("服务启动", "addr", cfg.Server.Addr(), "base_context", cfg.Server.BaseContext)
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("收到退出信号，开始优雅关闭")

		done := make(chan error, 1)
		go func() { done <- s.GracefulStop() }()
		select {
		case err := <-done:
			return err
		case <-time.After(shutdownTimeout):
			slog.Warn("优雅关闭超时，强制退出")
			return s.Stop()
		}
	})

	if err := g.Wait(); err != nil {
		slog.Error("服务运行失败", "error", err)
		os.Exit(1)
	}
	slog.Info("服务已停止")
}
