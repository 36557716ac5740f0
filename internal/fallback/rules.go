package fallback

import (
	"math"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
	"distsim/internal/descriptive"
)

// Confidence of the middle band, which the rules cannot grade
const moderateConfidence = 0.7

// Thresholds are the sensitivity-scaled cut-offs of the rule set
type Thresholds struct {
	KSSimilar   float64
	KSDifferent float64
	MeanRatio   float64
}

// ThresholdsFor scales the cut-offs with sensitivity, clipped to [0, 1]
func ThresholdsFor(sensitivity float64) Thresholds {
	s := descriptive.Clip(sensitivity, 0, 1)
	return Thresholds{
		KSSimilar:   0.1 + 0.2*s,
		KSDifferent: 0.3 + 0.3*s,
		MeanRatio:   0.1 + 0.15*s,
	}
}

// Classifier labels a feature vector without a trained model, using the KS
// statistic and the mean ratio
type Classifier struct{}

// NewClassifier creates a rule-based classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the label and confidence for one vector. A vector without
// ks_statistic or mean_ratio cannot be classified.
func (c *Classifier) Classify(v features.Vector, sensitivity float64) (similarity.Label, float64, error) {
	ks, ok := v.Get(features.KSStatistic)
	if !ok {
		return 0, 0, core.NewFeatureMissingError(features.KSStatistic.String())
	}
	ratio, ok := v.Get(features.MeanRatio)
	if !ok {
		return 0, 0, core.NewFeatureMissingError(features.MeanRatio.String())
	}

	th := ThresholdsFor(sensitivity)
	drift := math.Abs(1 - ratio)

	switch {
	case ks < th.KSSimilar && drift < th.MeanRatio:
		return similarity.SimilarDistribution, 0.9 - ks, nil
	case ks > th.KSDifferent || drift > 0.5:
		return similarity.CompletelyDifferent, math.Min(ks, 0.95), nil
	default:
		return similarity.ModeratelySimilar, moderateConfidence, nil
	}
}

// ClassifyAll classifies vectors independently. errs[i] is non-nil for each
// vector that could not be classified.
func (c *Classifier) ClassifyAll(vectors []features.Vector, sensitivity float64) ([]similarity.Label, []float64, []error) {
	labels := make([]similarity.Label, len(vectors))
	conf := make([]float64, len(vectors))
	errs := make([]error, len(vectors))
	for i, v := range vectors {
		labels[i], conf[i], errs[i] = c.Classify(v, sensitivity)
	}
	return labels, conf, errs
}
