/*
 * @module service/prediction/service
 * @description 单样本预测编排：校验 -> 构建特征表 -> 特征工程 -> 预处理 -> 推理 -> 后处理
 * @architecture 分层架构 - 业务逻辑层，依赖通过构造函数注入
 * @documentReference DESIGN.md
 * @stateFlow 特征映射 -> 缺失校验 -> 单行特征表 -> mean_features -> Transform -> Infer -> Sigmoid100
 * @rules 校验失败返回 ValidationError；之后的任何失败都包装为 ErrInternal；服务本身无可变状态
 * @dependencies service/frame, service/preprocess
 * @refs api/controllers/prediction_controller.go, service/init.go
 */

package prediction

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"grain-quality-service/service/frame"
	"grain-quality-service/service/preprocess"
)

// Transformer 训练期拟合的预处理管道
type Transformer interface {
	Transform(f *frame.Frame) (*frame.Frame, error)
}

// Inferer 训练好的回归模型
type Inferer interface {
	Infer(f *frame.Frame) ([]float64, error)
}

// Service 预测服务
type Service struct {
	expected    []string
	transformer Transformer
	model       Inferer
	metrics     *Metrics
	logger      *slog.Logger
}

// Option 预测服务选项
type Option func(*Service)

// WithMetrics 设置指标
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService 创建预测服务
func NewService(expected []string, transformer Transformer, model Inferer, opts ...Option) *Service {
	s := &Service{
		expected:    append([]string(nil), expected...),
		transformer: transformer,
		model:       model,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExpectedFeatures 请求必须提供的特征，按建表顺序
func (s *Service) ExpectedFeatures() []string {
	return append([]string(nil), s.expected...)
}

// Validate 返回缺失的期望特征（按字母序），无缺失时返回 nil
func (s *Service) Validate(features map[string]float64) error {
	var missing []string
	for _, name := range s.expected {
		if _, ok := features[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &ValidationError{Missing: missing}
}

// BuildFrame 按期望特征顺序构建单行特征表，映射中没有的特征取 0.0，多余的键被忽略
func BuildFrame(expected []string, features map[string]float64) (*frame.Frame, error) {
	row := make([]float64, len(expected))
	for i, name := range expected {
		row[i] = features[name]
	}
	return frame.New(expected, row)
}

// Predict 对单个样本进行预测，结果位于 (0, 100)
func (s *Service) Predict(features map[string]float64) (float64, error) {
	start := time.Now()

	if err := s.Validate(features); err != nil {
		s.metrics.observe(OutcomeInvalid, start, 0)
		return 0, err
	}

	value, err := s.run(features)
	if err != nil {
		s.metrics.observe(OutcomeError, start, 0)
		return 0, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	s.metrics.observe(OutcomeSuccess, start, value)
	s.logger.Debug("预测完成", "prediction", value, "duration", time.Since(start))
	return value, nil
}

// Raw 返回后处理之前的模型输出
func (s *Service) Raw(features map[string]float64) (float64, error) {
	if err := s.Validate(features); err != nil {
		return 0, err
	}
	raw, err := s.infer(features)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return raw, nil
}

func (s *Service) run(features map[string]float64) (float64, error) {
	raw, err := s.infer(features)
	if err != nil {
		return 0, err
	}
	return Sigmoid100(raw)
}

func (s *Service) infer(features map[string]float64) (float64, error) {
	if s.transformer == nil || s.model == nil {
		return 0, ErrNotLoaded
	}

	f, err := BuildFrame(s.expected, features)
	if err != nil {
		return 0, fmt.Errorf("构建特征表失败: %w", err)
	}

	enhanced, err := preprocess.CreateFeatures(f)
	if err != nil {
		return 0, fmt.Errorf("特征工程失败: %w", err)
	}

	processed, err := s.transformer.Transform(enhanced)
	if err != nil {
		return 0, fmt.Errorf("预处理失败: %w", err)
	}

	outputs, err := s.model.Infer(processed)
	if err != nil {
		return 0, fmt.Errorf("模型推理失败: %w", err)
	}
	if len(outputs) == 0 {
		return 0, errors.New("模型未返回预测结果")
	}
	return outputs[0], nil
}
