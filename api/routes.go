/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference DESIGN.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"grain-quality-service/api/controllers"
	"grain-quality-service/service"
	"grain-quality-service/service/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r chi.Router, services *service.Services) {
	// 基础中间件
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(corsOptions(services.Config.Server.CORS)))

	// 健康检查
	healthController := controllers.NewHealthController(services.Artifacts)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	predictionController := controllers.NewPredictionController(services.Prediction)
	r.Get("/", predictionController.Root)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/features", predictionController.Features)
		r.Post("/predict", predictionController.Predict)
	})
}

func corsOptions(cfg config.CORSConfig) cors.Options {
	return cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{controllers.PredictionIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
}
