/*
 * @module service/artifact/loader
 * @description 启动时一次性加载预处理器与模型制品，并解析期望输入特征
 * @architecture 分层架构 - 基础设施层
 * @documentReference DESIGN.md
 * @stateFlow Source -> 处理器制品 -> 模型制品 -> 期望特征 -> Bundle
 * @rules 任一制品加载失败即返回错误，由调用方终止进程；Bundle 加载后只读
 * @dependencies service/preprocess, service/model
 * @refs service/init.go
 */

package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"grain-quality-service/service/model"
	"grain-quality-service/service/preprocess"
)

// Bundle 已加载的制品
type Bundle struct {
	Processor        *preprocess.Processor
	Model            *model.Model
	ExpectedFeatures []string
	Source           string
}

// LoadOptions 加载参数
type LoadOptions struct {
	ModelName        string
	ProcessorName    string
	FallbackFeatures []string
	StrictFeatures   bool
	Logger           *slog.Logger
}

// Load 从来源加载处理器与模型
func Load(ctx context.Context, src Source, opts LoadOptions) (*Bundle, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	processorData, err := src.Open(ctx, opts.ProcessorName)
	if err != nil {
		return nil, fmt.Errorf("处理器制品未找到: %w", err)
	}
	processor, err := preprocess.DecodeProcessor(processorData)
	if err != nil {
		return nil, fmt.Errorf("加载处理器 %s 失败: %w", opts.ProcessorName, err)
	}

	modelData, err := src.Open(ctx, opts.ModelName)
	if err != nil {
		return nil, fmt.Errorf("模型制品未找到: %w", err)
	}
	m, err := model.Decode(modelData)
	if err != nil {
		return nil, fmt.Errorf("加载模型 %s 失败: %w", opts.ModelName, err)
	}

	if names := m.FeatureNames(); len(names) > 0 && !slices.Equal(names, processor.OutputColumns()) {
		return nil, fmt.Errorf("模型输入列 %v 与处理器输出列 %v 不一致", names, processor.OutputColumns())
	}

	expected, err := ResolveExpectedFeatures(processor, opts.FallbackFeatures, opts.StrictFeatures, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("模型制品加载完成",
		"source", src.Describe(),
		"processor", opts.ProcessorName,
		"model", opts.ModelName,
		"model_kind", m.Kind(),
		"expected_features", expected,
		"model_inputs", processor.OutputColumns())

	return &Bundle{
		Processor:        processor,
		Model:            m,
		ExpectedFeatures: expected,
		Source:           src.Describe(),
	}, nil
}

// ResolveExpectedFeatures 以处理器记录的有效特征（去掉派生列）为准；
// 处理器未记录时使用配置列表。两者不一致时告警，strict 时报错。
func ResolveExpectedFeatures(processor *preprocess.Processor, fallback []string, strict bool, logger *slog.Logger) ([]string, error) {
	var derived []string
	for _, name := range processor.ValidFeatures() {
		if name == preprocess.MeanFeatureColumn {
			continue
		}
		derived = append(derived, name)
	}

	if len(derived) == 0 {
		if len(fallback) == 0 {
			return nil, fmt.Errorf("无法确定期望输入特征：处理器与配置均未提供")
		}
		logger.Warn("处理器未记录原始特征，使用配置中的期望特征", "expected_features", fallback)
		return append([]string(nil), fallback...), nil
	}

	if len(fallback) > 0 && !slices.Equal(derived, fallback) {
		if strict {
			return nil, fmt.Errorf("处理器特征 %v 与配置特征 %v 不一致", derived, fallback)
		}
		logger.Warn("处理器特征与配置特征不一致，以处理器为准",
			"processor_features", derived, "configured_features", fallback)
	}

	return derived, nil
}
