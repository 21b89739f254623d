package prediction

import (
	"fmt"
	"math"
)

// Steepness 逻辑压缩的斜率
const Steepness = 2.0

var (
	upperBound = math.Nextafter(100, 0)
	lowerBound = math.SmallestNonzeroFloat64
)

// Sigmoid100 将原始预测值压缩到 (0, 100)。
// |raw| 较大时浮点运算会饱和到边界值，此时取边界内最近的可表示数。
func Sigmoid100(raw float64) (float64, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: raw=%v", ErrNonFinite, raw)
	}

	v := 100 / (1 + math.Exp(-Steepness*raw))
	switch {
	case v >= 100:
		return upperBound, nil
	case v <= 0:
		return lowerBound, nil
	}
	return v, nil
}
