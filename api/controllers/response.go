package controllers

import (
	"net/http"

	"github.com/go-chi/render"
)

// 对外错误信息
const (
	validationErrorPrefix = "输入数据错误: "
	internalErrorDetail   = "内部服务器错误，请检查输入格式或联系管理员"
	malformedBodyPrefix   = "请求体格式错误: "
)

// MessageResponse 根路径响应
type MessageResponse struct {
	Message string `json:"message" example:"模型预测API运行中"`
}

// FeaturesResponse 期望特征列表
type FeaturesResponse struct {
	ExpectedFeatures []string `json:"expected_features" example:"Gluten_content,Protein_content,Hardness"`
}

// PredictionRequest 预测请求，值为 null 的特征按 0.0 处理
type PredictionRequest struct {
	Features map[string]*float64 `json:"features"`
}

// PredictionResponse 预测结果，位于 (0, 100)
type PredictionResponse struct {
	Prediction float64 `json:"prediction" example:"50.3038"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Detail          string   `json:"detail" example:"输入数据错误: 缺少必要特征: ['Hardness']"`
	MissingFeatures []string `json:"missing_features,omitempty"`
}

func renderError(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}
