package classifier

import (
	"fmt"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
	"distsim/internal/descriptive"

	"gonum.org/v1/gonum/floats"
)

// PredictWithSensitivity classifies each vector and applies the confidence
// threshold for the sensitivity level. A prediction below the threshold is
// overridden to Similar distribution when sensitivity < 0.5 and to Completely
// different otherwise; Moderately similar is never produced by an override.
//
// Labels and confidences are aligned with vectors. A vector missing any of the
// artifact's feature columns fails the whole call with ErrFeatureMissing.
func (a *Artifact) PredictWithSensitivity(vectors []features.Vector, sensitivity float64) ([]similarity.Label, []float64, error) {
	s := descriptive.Clip(sensitivity, 0, 1)
	threshold := a.Thresholds.Lookup(s)

	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		row, err := v.Project(a.FeatureColumns)
		if err != nil {
			return nil, nil, err
		}
		rows[i] = row
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	probs, err := a.Booster.PredictProba(rows)
	if err != nil {
		return nil, nil, core.NewPredictionError(err)
	}
	if len(probs) != len(rows) {
		return nil, nil, core.NewPredictionError(fmt.Errorf("booster returned %d rows for %d inputs", len(probs), len(rows)))
	}

	labels := make([]similarity.Label, len(rows))
	confidences := make([]float64, len(rows))
	for i, p := range probs {
		if len(p) == 0 {
			return nil, nil, core.NewPredictionError(fmt.Errorf("booster returned no probabilities for row %d", i))
		}
		idx := floats.MaxIdx(p)
		confidence := p[idx]

		label, err := a.Encoder.Decode(idx)
		if err != nil {
			return nil, nil, core.NewPredictionError(err)
		}
		if confidence < threshold {
			label = overrideLabel(s)
		}
		labels[i] = label
		confidences[i] = confidence
	}
	return labels, confidences, nil
}

// overrideLabel resolves a low-confidence prediction: quiet below 0.5, alarmed at or above it
func overrideLabel(sensitivity float64) similarity.Label {
	if sensitivity < 0.5 {
		return similarity.SimilarDistribution
	}
	return similarity.CompletelyDifferent
}
