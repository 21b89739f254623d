package model

import (
	"fmt"

	"grain-quality-service/service/frame"
)

// Linear 线性回归
type Linear struct {
	Coef      []float64
	Intercept float64
}

func buildLinear(spec ModelSpec) (Regressor, error) {
	if len(spec.Coef) == 0 {
		return nil, fmt.Errorf("线性模型缺少系数")
	}
	return &Linear{Coef: append([]float64(nil), spec.Coef...), Intercept: spec.Intercept}, nil
}

// Predict 实现 Regressor
func (l *Linear) Predict(x []float64) (float64, error) {
	if len(x) != len(l.Coef) {
		return 0, fmt.Errorf("%w: 线性模型需要 %d 个特征, 实际 %d 个", frame.ErrShapeMismatch, len(l.Coef), len(x))
	}
	sum := l.Intercept
	for i, c := range l.Coef {
		sum += c * x[i]
	}
	return sum, nil
}

// RandomForest 随机森林回归，输出为各树均值
type RandomForest struct {
	Trees []*DecisionTree
}

func buildRandomForest(spec ModelSpec) (Regressor, error) {
	trees, err := buildTrees(spec.Trees)
	if err != nil {
		return nil, err
	}
	return &RandomForest{Trees: trees}, nil
}

// Predict 实现 Regressor
func (rf *RandomForest) Predict(x []float64) (float64, error) {
	sum := 0.0
	for _, tree := range rf.Trees {
		v, err := tree.Predict(x)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(rf.Trees)), nil
}

// GradientBoosting 梯度提升回归: init + learning_rate * Σ tree(x)
type GradientBoosting struct {
	Init         float64
	LearningRate float64
	Trees        []*DecisionTree
}

func buildGradientBoosting(spec ModelSpec) (Regressor, error) {
	if spec.LearningRate <= 0 {
		return nil, fmt.Errorf("梯度提升模型学习率必须为正数")
	}
	trees, err := buildTrees(spec.Trees)
	if err != nil {
		return nil, err
	}
	return &GradientBoosting{Init: spec.Init, LearningRate: spec.LearningRate, Trees: trees}, nil
}

// Predict 实现 Regressor
func (gb *GradientBoosting) Predict(x []float64) (float64, error) {
	sum := gb.Init
	for _, tree := range gb.Trees {
		v, err := tree.Predict(x)
		if err != nil {
			return 0, err
		}
		sum += gb.LearningRate * v
	}
	return sum, nil
}

// Voting 投票集成回归，输出为各估计器的加权平均
type Voting struct {
	Estimators []Regressor
	Weights    []float64
}

func buildVoting(spec ModelSpec) (Regressor, error) {
	if len(spec.Estimators) == 0 {
		return nil, fmt.Errorf("投票集成缺少子估计器")
	}
	weights := spec.Weights
	if len(weights) == 0 {
		weights = make([]float64, len(spec.Estimators))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(spec.Estimators) {
		return nil, fmt.Errorf("投票权重 %d 个, 子估计器 %d 个", len(weights), len(spec.Estimators))
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("投票权重不能为负数")
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("投票权重之和不能为 0")
	}

	estimators := make([]Regressor, len(spec.Estimators))
	for i, sub := range spec.Estimators {
		estimator, err := Build(sub)
		if err != nil {
			return nil, fmt.Errorf("构建第 %d 个子估计器失败: %w", i, err)
		}
		estimators[i] = estimator
	}
	return &Voting{Estimators: estimators, Weights: append([]float64(nil), weights...)}, nil
}

// Predict 实现 Regressor
func (v *Voting) Predict(x []float64) (float64, error) {
	sum, total := 0.0, 0.0
	for i, estimator := range v.Estimators {
		value, err := estimator.Predict(x)
		if err != nil {
			return 0, err
		}
		sum += v.Weights[i] * value
		total += v.Weights[i]
	}
	return sum / total, nil
}
