/*
 * @module service/model/regressor
 * @description 回归模型制品的解析与推理：线性模型、决策树、随机森林、梯度提升、投票集成
 * @architecture 注册中心模式 - 按类型构建估计器
 * @documentReference DESIGN.md
 * @stateFlow 制品字节 -> ModelSpec -> 估计器树 -> Infer(特征表) -> 原始预测值
 * @rules 加载后只读，可并发调用；输入宽度或列名与训练期不一致时报错
 * @dependencies service/frame
 * @refs service/artifact/loader.go, service/prediction
 */

package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"grain-quality-service/service/frame"
)

// 估计器类型
const (
	TypeLinear           = "linear"
	TypeDecisionTree     = "decision_tree"
	TypeRandomForest     = "random_forest"
	TypeGradientBoosting = "gradient_boosting"
	TypeVoting           = "voting"
)

// Regressor 单样本回归估计器
type Regressor interface {
	// Predict 对一行特征给出原始预测值
	Predict(x []float64) (float64, error)
}

// ModelSpec 模型制品的序列化格式，按 Type 使用对应字段
type ModelSpec struct {
	Type         string   `json:"type"`
	FeatureNames []string `json:"feature_names,omitempty"`

	// linear
	Coef      []float64 `json:"coef,omitempty"`
	Intercept float64   `json:"intercept,omitempty"`

	// decision_tree
	Nodes []TreeNode `json:"nodes,omitempty"`

	// random_forest, gradient_boosting
	Trees        []TreeSpec `json:"trees,omitempty"`
	Init         float64    `json:"init,omitempty"`
	LearningRate float64    `json:"learning_rate,omitempty"`

	// voting
	Estimators []ModelSpec `json:"estimators,omitempty"`
	Weights    []float64   `json:"weights,omitempty"`
}

// Builder 根据制品构建估计器
type Builder func(spec ModelSpec) (Regressor, error)

var (
	buildersMu sync.RWMutex
	builders   = map[string]Builder{}
)

func init() {
	mustRegister(TypeLinear, buildLinear)
	mustRegister(TypeDecisionTree, buildDecisionTree)
	mustRegister(TypeRandomForest, buildRandomForest)
	mustRegister(TypeGradientBoosting, buildGradientBoosting)
	mustRegister(TypeVoting, buildVoting)
}

// RegisterType 注册估计器类型
func RegisterType(modelType string, builder Builder) error {
	if modelType == "" {
		return fmt.Errorf("估计器类型不能为空")
	}
	if builder == nil {
		return fmt.Errorf("估计器 %s 的构建函数不能为空", modelType)
	}

	buildersMu.Lock()
	defer buildersMu.Unlock()
	if _, exists := builders[modelType]; exists {
		return fmt.Errorf("估计器类型 %s 已注册", modelType)
	}
	builders[modelType] = builder
	return nil
}

func mustRegister(modelType string, builder Builder) {
	if err := RegisterType(modelType, builder); err != nil {
		panic(err)
	}
}

// SupportedTypes 已注册的估计器类型
func SupportedTypes() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()

	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Build 构建估计器（可嵌套）
func Build(spec ModelSpec) (Regressor, error) {
	buildersMu.RLock()
	builder, ok := builders[spec.Type]
	buildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("不支持的估计器类型: %q", spec.Type)
	}
	return builder(spec)
}

// Model 已加载的回归模型
type Model struct {
	kind         string
	featureNames []string
	root         Regressor
}

// Decode 解析模型制品
func Decode(data []byte) (*Model, error) {
	var spec ModelSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("解析模型制品失败: %w", err)
	}
	return New(spec)
}

// New 根据制品构建模型
func New(spec ModelSpec) (*Model, error) {
	root, err := Build(spec)
	if err != nil {
		return nil, err
	}
	return &Model{
		kind:         spec.Type,
		featureNames: append([]string(nil), spec.FeatureNames...),
		root:         root,
	}, nil
}

// Kind 顶层估计器类型
func (m *Model) Kind() string {
	return m.kind
}

// FeatureNames 训练期记录的输入列，未记录时为空
func (m *Model) FeatureNames() []string {
	return append([]string(nil), m.featureNames...)
}

// Infer 对特征表逐行推理
func (m *Model) Infer(f *frame.Frame) ([]float64, error) {
	if len(m.featureNames) > 0 {
		if err := checkColumns(m.featureNames, f.Columns()); err != nil {
			return nil, err
		}
	}

	predictions := make([]float64, f.NumRows())
	for i := range predictions {
		value, err := m.root.Predict(f.Row(i))
		if err != nil {
			return nil, fmt.Errorf("第 %d 行推理失败: %w", i, err)
		}
		predictions[i] = value
	}
	return predictions, nil
}

func checkColumns(want, got []string) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: 模型需要 %d 列 %v, 实际 %d 列 %v", frame.ErrShapeMismatch, len(want), want, len(got), got)
	}
	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("%w: 第 %d 列应为 %s, 实际为 %s", frame.ErrShapeMismatch, i, want[i], got[i])
		}
	}
	return nil
}
