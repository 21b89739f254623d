/*
 * @module service/preprocess/processor
 * @description 推理期预处理器：有效特征筛选、中位数填充、鲁棒缩放、特征选择掩码
 * @architecture 管道模式 - 只读的训练期参数
 * @documentReference DESIGN.md
 * @stateFlow 特征表 -> 列筛选 -> 缺失值填充 -> 鲁棒缩放 -> 掩码选择 -> 模型输入
 * @rules 参数在加载后不可变，推理期从不重新拟合；列不一致必须报错而不是静默重排
 * @dependencies service/frame
 * @refs service/artifact/loader.go
 */

package preprocess

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"grain-quality-service/service/frame"
)

// ProcessorArtifact 处理器制品的序列化格式
type ProcessorArtifact struct {
	ValidFeatures []string          `json:"valid_features"`
	Imputer       ImputerArtifact   `json:"imputer"`
	NumericCols   []string          `json:"numeric_cols"`
	Scaler        ScalerArtifact    `json:"scaler"`
	Selector      *SelectorArtifact `json:"selector,omitempty"`
}

// ImputerArtifact 中位数填充参数，与 ValidFeatures 一一对应
type ImputerArtifact struct {
	Strategy   string    `json:"strategy"`
	Statistics []float64 `json:"statistics"`
}

// ScalerArtifact 鲁棒缩放参数，与 NumericCols 一一对应
type ScalerArtifact struct {
	Center        []float64 `json:"center"`
	Scale         []float64 `json:"scale"`
	WithCentering *bool     `json:"with_centering,omitempty"`
	WithScaling   *bool     `json:"with_scaling,omitempty"`
}

// SelectorArtifact 特征选择掩码，与 NumericCols 一一对应
type SelectorArtifact struct {
	Support []bool `json:"support"`
}

// Processor 训练期拟合的预处理器（推理期只读）
type Processor struct {
	validFeatures []string
	medians       []float64
	numericCols   []string
	center        []float64
	scale         []float64
	selected      []string
}

// DecodeProcessor 解析并校验处理器制品
func DecodeProcessor(data []byte) (*Processor, error) {
	var artifact ProcessorArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("解析处理器制品失败: %w", err)
	}
	return NewProcessor(artifact)
}

// NewProcessor 根据制品参数构建处理器
func NewProcessor(artifact ProcessorArtifact) (*Processor, error) {
	if len(artifact.ValidFeatures) == 0 {
		return nil, fmt.Errorf("处理器未记录有效特征")
	}
	valid := make(map[string]bool, len(artifact.ValidFeatures))
	for _, name := range artifact.ValidFeatures {
		if valid[name] {
			return nil, fmt.Errorf("有效特征重复: %s", name)
		}
		valid[name] = true
	}

	if artifact.Imputer.Strategy != "" && artifact.Imputer.Strategy != "median" {
		return nil, fmt.Errorf("不支持的填充策略: %s", artifact.Imputer.Strategy)
	}
	if len(artifact.Imputer.Statistics) != len(artifact.ValidFeatures) {
		return nil, fmt.Errorf("%w: 填充统计量 %d 个, 有效特征 %d 个",
			frame.ErrShapeMismatch, len(artifact.Imputer.Statistics), len(artifact.ValidFeatures))
	}

	for _, name := range artifact.NumericCols {
		if !valid[name] {
			return nil, fmt.Errorf("数值列 %s 不在有效特征中", name)
		}
	}

	n := len(artifact.NumericCols)
	center := make([]float64, n)
	scale := make([]float64, n)
	withCentering := artifact.Scaler.WithCentering == nil || *artifact.Scaler.WithCentering
	withScaling := artifact.Scaler.WithScaling == nil || *artifact.Scaler.WithScaling
	if n > 0 {
		if withCentering && len(artifact.Scaler.Center) != n {
			return nil, fmt.Errorf("%w: 缩放中心 %d 个, 数值列 %d 个", frame.ErrShapeMismatch, len(artifact.Scaler.Center), n)
		}
		if withScaling && len(artifact.Scaler.Scale) != n {
			return nil, fmt.Errorf("%w: 缩放尺度 %d 个, 数值列 %d 个", frame.ErrShapeMismatch, len(artifact.Scaler.Scale), n)
		}
	}
	for i := 0; i < n; i++ {
		scale[i] = 1
		if withCentering {
			center[i] = artifact.Scaler.Center[i]
		}
		// 尺度为 0 时按 1 处理，与拟合时的缩放器行为一致
		if withScaling && artifact.Scaler.Scale[i] != 0 {
			scale[i] = artifact.Scaler.Scale[i]
		}
	}

	p := &Processor{
		validFeatures: append([]string(nil), artifact.ValidFeatures...),
		medians:       append([]float64(nil), artifact.Imputer.Statistics...),
		numericCols:   append([]string(nil), artifact.NumericCols...),
		center:        center,
		scale:         scale,
	}

	if artifact.Selector != nil && n > 0 {
		if len(artifact.Selector.Support) == n {
			p.selected = make([]string, 0, n)
			for i, keep := range artifact.Selector.Support {
				if keep {
					p.selected = append(p.selected, artifact.NumericCols[i])
				}
			}
		} else {
			slog.Warn("特征选择掩码长度与数值列不一致，推理时跳过特征选择",
				"mask_len", len(artifact.Selector.Support), "numeric_cols", n)
		}
	}

	return p, nil
}

// ValidFeatures 训练期保留的有效特征（含派生列）
func (p *Processor) ValidFeatures() []string {
	return append([]string(nil), p.validFeatures...)
}

// NumericColumns 训练期记录的数值列
func (p *Processor) NumericColumns() []string {
	return append([]string(nil), p.numericCols...)
}

// SelectedColumns 特征选择后保留的列，未启用选择时为 nil
func (p *Processor) SelectedColumns() []string {
	if p.selected == nil {
		return nil
	}
	return append([]string(nil), p.selected...)
}

// OutputColumns Transform 输出的列顺序
func (p *Processor) OutputColumns() []string {
	if p.selected != nil {
		return p.SelectedColumns()
	}
	return p.ValidFeatures()
}

// Transform 使用训练期参数变换特征表
func (p *Processor) Transform(f *frame.Frame) (*frame.Frame, error) {
	// 1. 筛选有效特征
	filtered, err := f.Select(p.validFeatures)
	if err != nil {
		return nil, fmt.Errorf("筛选有效特征失败: %w", err)
	}

	// 2. 中位数填充
	medians := make(map[string]float64, len(p.validFeatures))
	for i, name := range p.validFeatures {
		medians[name] = p.medians[i]
	}
	filtered = filtered.Map(func(column string, v float64) float64 {
		if math.IsNaN(v) {
			return medians[column]
		}
		return v
	})

	if len(p.numericCols) == 0 {
		return filtered, nil
	}

	// 3. 鲁棒缩放
	centers := make(map[string]float64, len(p.numericCols))
	scales := make(map[string]float64, len(p.numericCols))
	for i, name := range p.numericCols {
		centers[name] = p.center[i]
		scales[name] = p.scale[i]
	}
	filtered = filtered.Map(func(column string, v float64) float64 {
		scale, ok := scales[column]
		if !ok {
			return v
		}
		return (v - centers[column]) / scale
	})

	// 4. 特征选择
	if p.selected != nil {
		filtered, err = filtered.Select(p.selected)
		if err != nil {
			return nil, fmt.Errorf("特征选择失败: %w", err)
		}
	}

	return filtered, nil
}
