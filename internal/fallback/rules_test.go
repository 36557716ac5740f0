package fallback

import (
	"errors"
	"testing"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vector(ks, meanRatio float64) features.Vector {
	v := features.NewVector(similarity.TestIdentity{Name: "Iddq", Number: "60010"})
	v.Set(features.KSStatistic, ks)
	v.Set(features.MeanRatio, meanRatio)
	return v
}

func TestThresholdsFor(t *testing.T) {
	th := ThresholdsFor(0.5)
	assert.InDelta(t, 0.2, th.KSSimilar, 1e-12)
	assert.InDelta(t, 0.45, th.KSDifferent, 1e-12)
	assert.InDelta(t, 0.175, th.MeanRatio, 1e-12)

	assert.Equal(t, ThresholdsFor(1), ThresholdsFor(4))
	assert.Equal(t, ThresholdsFor(0), ThresholdsFor(-1))
}

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name        string
		ks, ratio   float64
		sensitivity float64
		label       similarity.Label
		confidence  float64
	}{
		{"identical", 0, 1, 0.5, similarity.SimilarDistribution, 0.9},
		{"small shift", 0.15, 1.05, 0.5, similarity.SimilarDistribution, 0.75},
		{"large ks", 0.8, 1.0, 0.5, similarity.CompletelyDifferent, 0.8},
		{"ks capped", 1.0, 0.01, 0.0, similarity.CompletelyDifferent, 0.95},
		{"mean drift only", 0.05, 1.6, 0.5, similarity.CompletelyDifferent, 0.05},
		{"middle band", 0.3, 1.1, 0.5, similarity.ModeratelySimilar, 0.7},
		{"similar at high sensitivity", 0.25, 1.2, 1.0, similarity.SimilarDistribution, 0.65},
		{"moderate at low sensitivity", 0.25, 1.2, 0.0, similarity.ModeratelySimilar, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, conf, err := c.Classify(vector(tt.ks, tt.ratio), tt.sensitivity)
			require.NoError(t, err)
			assert.Equal(t, tt.label, label)
			assert.InDelta(t, tt.confidence, conf, 1e-9)
		})
	}
}

func TestClassify_DisjointIsDifferentAtEverySensitivity(t *testing.T) {
	c := NewClassifier()
	for i := 0; i <= 10; i++ {
		label, _, err := c.Classify(vector(1.0, 0.005), float64(i)/10)
		require.NoError(t, err)
		assert.Equal(t, similarity.CompletelyDifferent, label)
	}
}

func TestClassify_MissingFeatures(t *testing.T) {
	c := NewClassifier()

	v := features.NewVector(similarity.TestIdentity{Name: "T"})
	v.Set(features.MeanRatio, 1)
	_, _, err := c.Classify(v, 0.5)
	assert.True(t, errors.Is(err, core.ErrFeatureMissing))

	v = features.NewVector(similarity.TestIdentity{Name: "T"})
	v.Set(features.KSStatistic, 0.1)
	_, _, err = c.Classify(v, 0.5)
	assert.True(t, errors.Is(err, core.ErrFeatureMissing))
}

func TestClassifyAll(t *testing.T) {
	c := NewClassifier()
	empty := features.NewVector(similarity.TestIdentity{Name: "empty"})

	labels, conf, errs := c.ClassifyAll([]features.Vector{vector(0, 1), empty, vector(0.9, 1)}, 0.5)
	require.Len(t, labels, 3)
	assert.Equal(t, similarity.SimilarDistribution, labels[0])
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.Equal(t, similarity.CompletelyDifferent, labels[2])
	assert.InDelta(t, 0.9, conf[2], 1e-12)
}
