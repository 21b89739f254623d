package prediction

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 预测结果标签
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics 预测相关的 Prometheus 指标，nil 时所有方法为空操作
type Metrics struct {
	predictions *prometheus.CounterVec
	duration    prometheus.Histogram
	values      prometheus.Histogram
	artifacts   *prometheus.GaugeVec
}

// NewMetrics 创建并注册指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grain_quality",
			Name:      "predictions_total",
			Help:      "Number of prediction requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grain_quality",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent in validation, preprocessing and inference.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		values: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grain_quality",
			Name:      "prediction_value",
			Help:      "Distribution of returned prediction values.",
			Buckets:   prometheus.LinearBuckets(10, 10, 9),
		}),
		artifacts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "grain_quality",
			Name:      "artifact_info",
			Help:      "Loaded artifact summary, value is always 1.",
		}, []string{"source", "model_kind", "expected_features"}),
	}

	if reg != nil {
		reg.MustRegister(m.predictions, m.duration, m.values, m.artifacts)
	}
	return m
}

// RecordArtifacts 记录启动时加载的制品信息
func (m *Metrics) RecordArtifacts(source, modelKind string, expectedFeatures int) {
	if m == nil {
		return
	}
	m.artifacts.Reset()
	m.artifacts.WithLabelValues(source, modelKind, strconv.Itoa(expectedFeatures)).Set(1)
}

func (m *Metrics) observe(outcome string, start time.Time, value float64) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(start).Seconds())
	if outcome == OutcomeSuccess {
		m.values.Observe(value)
	}
}
