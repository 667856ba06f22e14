package simulation

import "math"

// Percentile selects from an ascending-sorted slice using the nearest-rank
// method: index = ceil(p*n) - 1, clamped to [0, n-1]. No interpolation;
// the result is always an observed value.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return sorted[idx]
}

// Mean is the arithmetic average of the values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
