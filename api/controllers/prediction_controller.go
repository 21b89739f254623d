/*
 * @module api/controllers/prediction_controller
 * @description 预测控制器，提供根路径、期望特征查询与单样本预测接口
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow HTTP请求 -> 解析请求体 -> 预测服务 -> JSON响应
 * @rules 缺失特征返回400并列出缺失项；其余失败返回500通用信息，详细错误只写服务端日志
 * @dependencies github.com/go-chi/render, github.com/google/uuid
 * @refs service/prediction/service.go
 */

package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"grain-quality-service/service/prediction"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// PredictionIDHeader 每次预测的追踪编号
const PredictionIDHeader = "X-Prediction-ID"

// Predictor 预测服务接口
type Predictor interface {
	ExpectedFeatures() []string
	Predict(features map[string]float64) (float64, error)
}

// PredictionController 预测控制器
type PredictionController struct {
	predictor Predictor
}

// NewPredictionController 创建预测控制器实例
func NewPredictionController(predictor Predictor) *PredictionController {
	return &PredictionController{predictor: predictor}
}

// Root 服务运行状态
// @Summary 服务运行状态
// @Description 返回静态确认信息
// @Tags 预测
// @Produce json
// @Success 200 {object} MessageResponse
// @Router / [get]
func (c *PredictionController) Root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, MessageResponse{Message: "模型预测API运行中"})
}

// Features 期望输入特征
// @Summary 获取期望输入特征
// @Description 返回预测接口要求的特征名列表，顺序与内部建表顺序一致
// @Tags 预测
// @Produce json
// @Success 200 {object} FeaturesResponse
// @Router /api/v1/features [get]
func (c *PredictionController) Features(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, FeaturesResponse{ExpectedFeatures: c.predictor.ExpectedFeatures()})
}

// Predict 单样本预测
// @Summary 单样本预测
// @Description 接收特征字典，经特征工程、预处理和模型推理后返回 (0, 100) 区间的预测值
// @Tags 预测
// @Accept json
// @Produce json
// @Param request body PredictionRequest true "特征字典"
// @Success 200 {object} PredictionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/predict [post]
func (c *PredictionController) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusUnprocessableEntity, ErrorResponse{Detail: malformedBodyPrefix + err.Error()})
		return
	}
	if req.Features == nil {
		renderError(w, r, http.StatusUnprocessableEntity, ErrorResponse{Detail: malformedBodyPrefix + "缺少 features 字段"})
		return
	}

	features := make(map[string]float64, len(req.Features))
	for name, value := range req.Features {
		if value == nil {
			features[name] = 0
			continue
		}
		features[name] = *value
	}

	predictionID := uuid.NewString()
	w.Header().Set(PredictionIDHeader, predictionID)

	result, err := c.predictor.Predict(features)
	if err != nil {
		var verr *prediction.ValidationError
		if errors.As(err, &verr) {
			renderError(w, r, http.StatusBadRequest, ErrorResponse{
				Detail:          validationErrorPrefix + verr.Error(),
				MissingFeatures: verr.Missing,
			})
			return
		}

		slog.Error("预测过程中发生错误",
			"error", err,
			"prediction_id", predictionID,
			"request_id", middleware.GetReqID(r.Context()))
		renderError(w, r, http.StatusInternalServerError, ErrorResponse{Detail: internalErrorDetail})
		return
	}

	render.JSON(w, r, PredictionResponse{Prediction: result})
}
