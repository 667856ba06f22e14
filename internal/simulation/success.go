package simulation

import "fmt"

// SuccessRate returns the fraction of final values meeting or exceeding the
// target, in [0, 1]. A zero-length distribution is a caller bug and fails
// with ErrEmptyDistribution.
func SuccessRate(finalValues []float64, target float64) (float64, error) {
	if len(finalValues) == 0 {
		return 0, fmt.Errorf("%w: no final values to evaluate", ErrEmptyDistribution)
	}
	count := 0
	for _, v := range finalValues {
		if v >= target {
			count++
		}
	}
	return float64(count) / float64(len(finalValues)), nil
}
