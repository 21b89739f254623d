package preprocess

import (
	"math"

	"grain-quality-service/service/frame"
)

// MeanFeatureColumn 特征工程追加的派生列
const MeanFeatureColumn = "mean_features"

// CreateFeatures 追加每行数值列的均值列。
// NaN 不参与均值计算；全部为 NaN 时结果为 NaN。没有任何列时原样返回。
func CreateFeatures(f *frame.Frame) (*frame.Frame, error) {
	if f.NumColumns() == 0 {
		return f, nil
	}

	means := make([]float64, f.NumRows())
	for r := range means {
		sum, count := 0.0, 0
		for _, v := range f.Row(r) {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			means[r] = math.NaN()
			continue
		}
		means[r] = sum / float64(count)
	}

	return f.WithColumn(MeanFeatureColumn, means)
}
