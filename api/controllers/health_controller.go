/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供服务健康状态与制品就绪检查
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow HTTP请求处理流程
 * @rules 提供简单的健康检查接口，用于容器健康检查和负载均衡；就绪检查附带已加载制品摘要
 * @dependencies github.com/go-chi/render
 * @refs service/artifact/loader.go
 */

package controllers

import (
	"net/http"
	"time"

	"grain-quality-service/service/artifact"

	"github.com/go-chi/render"
)

const (
	serviceName    = "grain-quality-service"
	serviceVersion = "1.0.0"
)

// HealthController 健康检查控制器
type HealthController struct {
	bundle *artifact.Bundle
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(bundle *artifact.Bundle) *HealthController {
	return &HealthController{bundle: bundle}
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"grain-quality-service"`
}

// ArtifactSummary 已加载制品摘要
type ArtifactSummary struct {
	Source           string   `json:"source" example:"file://models"`
	ModelKind        string   `json:"model_kind" example:"voting"`
	ExpectedFeatures []string `json:"expected_features"`
	ModelInputs      []string `json:"model_inputs"`
}

// ReadyResponse 就绪检查响应结构
type ReadyResponse struct {
	HealthResponse
	Artifacts *ArtifactSummary `json:"artifacts,omitempty"`
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newHealthResponse("ok"))
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查模型制品是否已加载
// @Tags 系统
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	if c.bundle == nil || c.bundle.Processor == nil || c.bundle.Model == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, ReadyResponse{HealthResponse: newHealthResponse("not_ready")})
		return
	}

	render.JSON(w, r, ReadyResponse{
		HealthResponse: newHealthResponse("ready"),
		Artifacts: &ArtifactSummary{
			Source:           c.bundle.Source,
			ModelKind:        c.bundle.Model.Kind(),
			ExpectedFeatures: c.bundle.ExpectedFeatures,
			ModelInputs:      c.bundle.Processor.OutputColumns(),
		},
	})
}

func newHealthResponse(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   serviceName,
	}
}
