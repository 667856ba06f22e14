package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileNearestRank(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"p10", 0.10, 1},
		{"p25", 0.25, 3},
		{"median", 0.50, 5},
		{"p90", 0.90, 9},
		{"p100", 1.00, 10},
		{"p0 clamps to first", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentile(sorted, tt.p))
		})
	}
}

func TestPercentileSingleElement(t *testing.T) {
	single := []float64{42}
	for _, p := range []float64{0, 0.1, 0.5, 0.9, 1} {
		assert.Equal(t, 42.0, Percentile(single, p))
	}
}

func TestPercentileEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 2.5, Mean([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, Mean(nil))
}
