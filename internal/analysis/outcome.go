package analysis

import (
	"distsim/domain/similarity"
)

// Outcome is how a test was labeled: by the trained model, by the rule-based
// fallback, or not at all. It is one of MLResult, FallbackResult or Unavailable.
type Outcome interface {
	isOutcome()
}

// MLResult is a label produced by the trained model after the sensitivity override
type MLResult struct {
	Label        similarity.Label
	Confidence   float64
	ModelVersion string
}

// FallbackResult is a label produced by the rule set. Cause says why the model was not used.
type FallbackResult struct {
	Label      similarity.Label
	Confidence float64
	Cause      error
}

// Unavailable means no label could be produced for the test
type Unavailable struct {
	Reason error
}

func (MLResult) isOutcome()       {}
func (FallbackResult) isOutcome() {}
func (Unavailable) isOutcome()    {}

// Classification flattens an outcome into the persisted result shape. ok is
// false for Unavailable.
func Classification(test similarity.TestIdentity, sensitivity float64, o Outcome) (similarity.ClassificationResult, bool) {
	res := similarity.ClassificationResult{Test: test, Sensitivity: sensitivity}
	switch r := o.(type) {
	case MLResult:
		res.Label, res.Confidence = r.Label, r.Confidence
		res.ModelVersion = r.ModelVersion
		res.MLPrediction = true
	case FallbackResult:
		res.Label, res.Confidence = r.Label, r.Confidence
		res.ModelVersion = similarity.RuleBasedVersion
	default:
		return res, false
	}
	return res, true
}
