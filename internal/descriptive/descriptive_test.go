package descriptive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 4.0, Percentile(sorted, 100))
	assert.InDelta(t, 2.5, Percentile(sorted, 50), 1e-12)
	assert.InDelta(t, 1.75, Percentile(sorted, 25), 1e-12)
	assert.InDelta(t, 3.97, Percentile(sorted, 99), 1e-12)
}

func TestPercentileEdgeCases(t *testing.T) {
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 99))
	assert.Equal(t, 1.0, Percentile([]float64{1, 2}, -5))
}

func TestPercentilesSortsInput(t *testing.T) {
	got := Percentiles([]float64{4, 1, 3, 2}, 25, 75)
	assert.InDelta(t, 1.75, got[0], 1e-12)
	assert.InDelta(t, 3.25, got[1], 1e-12)
}

func TestDropNaN(t *testing.T) {
	got := DropNaN([]float64{1, math.NaN(), 2, math.Inf(1), 3})
	assert.Equal(t, []float64{1, 2, 3}, got)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, Linspace(0, 100, 5))
	assert.Equal(t, []float64{0}, Linspace(0, 100, 1))
	assert.Nil(t, Linspace(0, 100, 0))
}

func TestRoundAndClip(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.2345, 2))
	assert.Equal(t, -0.5, Round(-0.499999, 2))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))

	assert.Equal(t, 0.0, Clip(-1, 0, 1))
	assert.Equal(t, 1.0, Clip(3, 0, 1))
	assert.Equal(t, 0.4, Clip(0.4, 0, 1))
	assert.Equal(t, 0.0, Clip(math.NaN(), 0, 1))
}
