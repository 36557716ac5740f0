package extraction

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
	"distsim/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(rng *rand.Rand, n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + rng.Float64()*(hi-lo)
	}
	return out
}

func normal(rng *rand.Rand, n int, mean, std float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + rng.NormFloat64()*std
	}
	return out
}

func mustGet(t *testing.T, v features.Vector, n features.Name) float64 {
	t.Helper()
	value, ok := v.Get(n)
	require.True(t, ok, "feature %s missing", n)
	return value
}

func TestExtract_ProducesFullVector(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v, err := ExtractFeatures(normal(rng, 300, 5, 1), normal(rng, 250, 5.2, 1.1))
	require.NoError(t, err)
	assert.Equal(t, features.Count, v.Len(), "every feature should be defined for well-behaved data")

	_, err = v.Project(features.DefaultColumns())
	assert.NoError(t, err)
}

func TestExtract_Symmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := normal(rng, 200, 3, 0.5)
	b := normal(rng, 180, 3.4, 0.9)

	ab, err := ExtractFeatures(a, b)
	require.NoError(t, err)
	ba, err := ExtractFeatures(b, a)
	require.NoError(t, err)

	assert.Equal(t, mustGet(t, ab, features.MeanDiffAbs), mustGet(t, ba, features.MeanDiffAbs))
	assert.Equal(t, mustGet(t, ab, features.StdDiff), mustGet(t, ba, features.StdDiff))
	assert.InDelta(t, mustGet(t, ab, features.KSStatistic), mustGet(t, ba, features.KSStatistic), 1e-12)
	assert.InDelta(t, 1.0, mustGet(t, ab, features.MeanRatio)*mustGet(t, ba, features.MeanRatio), 1e-9)
	assert.Equal(t, mustGet(t, ab, features.IQROverlap), mustGet(t, ba, features.IQROverlap))
}

func TestExtract_KSBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		a := normal(rng, 1+rng.Intn(300), rng.Float64()*10, 0.1+rng.Float64())
		b := normal(rng, 1+rng.Intn(300), rng.Float64()*10, 0.1+rng.Float64())
		v, err := ExtractFeatures(a, b)
		require.NoError(t, err)

		ks := mustGet(t, v, features.KSStatistic)
		p := mustGet(t, v, features.KSPValue)
		assert.GreaterOrEqual(t, ks, 0.0)
		assert.LessOrEqual(t, ks, 1.0)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestExtract_IdenticalConstantSeries(t *testing.T) {
	series := []float64{10, 10, 10, 10, 10}
	v, err := ExtractFeatures(series, series)
	require.NoError(t, err)

	assert.Equal(t, 0.0, mustGet(t, v, features.KSStatistic))
	assert.Equal(t, 1.0, mustGet(t, v, features.KSPValue))
	assert.Equal(t, 0.0, mustGet(t, v, features.SkewInput))
	assert.Equal(t, 0.0, mustGet(t, v, features.KurtReference))
	assert.InDelta(t, 1.0, mustGet(t, v, features.MeanRatio), 1e-9)
	assert.Equal(t, 0.0, mustGet(t, v, features.StdRatio))
	assert.Equal(t, 0.0, mustGet(t, v, features.IQROverlap))
}

func TestExtract_DisjointUniforms(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	v, err := ExtractFeatures(uniform(rng, 500, 0, 1), uniform(rng, 500, 100, 101))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, mustGet(t, v, features.KSStatistic), 1e-12)
	assert.Less(t, mustGet(t, v, features.KSPValue), 1e-10)
	assert.Less(t, mustGet(t, v, features.MeanRatio), 0.01)
	assert.Less(t, mustGet(t, v, features.IQROverlap), 0.0)
}

func TestExtract_EmptySideIsDataAbsent(t *testing.T) {
	_, err := ExtractFeatures(nil, []float64{1, 2})
	assert.True(t, errors.Is(err, core.ErrDataAbsent))

	_, err = ExtractFeatures([]float64{1, 2}, []float64{math.NaN()})
	assert.True(t, errors.Is(err, core.ErrDataAbsent))
}

func TestExtract_DegenerateFeaturesAreOmitted(t *testing.T) {
	v, err := NewExtractor(nil).Extract(similarity.TestIdentity{Name: "T", Number: "1"}, []float64{4.2}, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	assert.Equal(t, 4.2, mustGet(t, v, features.MeanInput))
	assert.False(t, v.Has(features.StdInput), "sample std of one value is undefined")
	assert.False(t, v.Has(features.StdDiff))
	assert.False(t, v.Has(features.CVInput))
	assert.True(t, v.Has(features.KSStatistic))
	assert.Equal(t, "T", v.Test.Name)
}

func TestExtract_OmittedFeaturesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	e := NewExtractor(internal.NewLoggerTo(internal.LogLevelDebug, &buf))

	_, err := e.Extract(similarity.TestIdentity{Name: "Vbg", Number: "2"}, []float64{4.2}, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	logged := buf.String()
	assert.Contains(t, logged, core.ErrFeatureComputation.Error())
	assert.Contains(t, logged, "std_input undefined for test Vbg")
	assert.NotContains(t, logged, "ks_statistic undefined")
}

func TestExtract_DropsMissingValues(t *testing.T) {
	in := []float64{1, math.NaN(), 2, 3, math.NaN()}
	ref := []float64{1, 2, 3, 4}
	v, err := ExtractFeatures(in, ref)
	require.NoError(t, err)

	assert.Equal(t, 3.0, mustGet(t, v, features.NInput))
	assert.Equal(t, 4.0, mustGet(t, v, features.NReference))
	assert.InDelta(t, 0.75, mustGet(t, v, features.NRatio), 1e-9)
	assert.Equal(t, 2.0, mustGet(t, v, features.MeanInput))
}

func TestExtract_QuartilePercentagesUseReferenceIQR(t *testing.T) {
	in := []float64{2, 3, 4, 5, 6}
	ref := []float64{1, 2, 3, 4, 5}
	v, err := ExtractFeatures(in, ref)
	require.NoError(t, err)

	// both quartiles shift by 1, the reference IQR is 2
	assert.InDelta(t, 50, mustGet(t, v, features.Q1DiffPct), 1e-6)
	assert.InDelta(t, 50, mustGet(t, v, features.Q3DiffPct), 1e-6)
	assert.InDelta(t, 50, mustGet(t, v, features.QuartileDiff), 1e-6)
	assert.InDelta(t, 1, mustGet(t, v, features.IQROverlap), 1e-12)
	assert.InDelta(t, 0.5, mustGet(t, v, features.RDRS), 1e-6)
}

func TestKolmogorovSmirnov_KnownValues(t *testing.T) {
	d, p := KolmogorovSmirnov([]float64{1, 2, 3}, []float64{4, 5, 6})
	assert.Equal(t, 1.0, d)
	assert.Less(t, p, 0.2)

	d, _ = KolmogorovSmirnov([]float64{4, 3, 2, 1}, []float64{3, 4, 5, 6})
	assert.InDelta(t, 0.5, d, 1e-12)

	d, p = KolmogorovSmirnov(nil, []float64{1})
	assert.True(t, math.IsNaN(d))
	assert.True(t, math.IsNaN(p))
}

func TestKolmogorovSurvival(t *testing.T) {
	assert.Equal(t, 1.0, kolmogorovSurvival(0))
	assert.InDelta(t, 0.2700, kolmogorovSurvival(1.0), 1e-3)
	assert.InDelta(t, 0.0494, kolmogorovSurvival(1.36), 1e-3)
	assert.InDelta(t, kolmogorovSurvival(1.1799), kolmogorovSurvival(1.18), 1e-3)
	assert.Less(t, kolmogorovSurvival(5), 1e-15)
}
