package analysis

import (
	"math"
	"time"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
)

// ResultRow is the analysis of one requested test. When the test had no
// usable data only Test, Module, Sensitivity and Outcome are set; numeric
// statistics are NaN and the limits nil.
type ResultRow struct {
	Test        similarity.TestIdentity
	Module      string
	Sensitivity float64
	Outcome     Outcome

	// Statistics of the sampled input series
	Describe             Describe
	PercentilesInput     [6]float64
	PercentilesReference [6]float64

	LSLInput, USLInput         *float64
	LSLReference, USLReference *float64

	// Capability of the full input series against the reference limits
	Cpk   float64
	Yield YieldStats

	Features        *features.Vector
	InputSample     []float64
	ReferenceSample []float64
}

func identityRow(test similarity.TestIdentity, sensitivity float64, reason error) ResultRow {
	nan := math.NaN()
	var nanPct [6]float64
	for i := range nanPct {
		nanPct[i] = nan
	}
	return ResultRow{
		Test:                 test,
		Module:               ModuleFor(test.Number),
		Sensitivity:          sensitivity,
		Outcome:              Unavailable{Reason: reason},
		Describe:             Describe{Min: nan, Max: nan, Mean: nan, Std: nan},
		PercentilesInput:     nanPct,
		PercentilesReference: nanPct,
		Cpk:                  nan,
	}
}

// HasData reports whether statistics were computed for the row
func (r ResultRow) HasData() bool {
	return r.Features != nil
}

// Classification returns the label record, ok is false when the test was not labeled
func (r ResultRow) Classification() (similarity.ClassificationResult, bool) {
	return Classification(r.Test, r.Sensitivity, r.Outcome)
}

// MLPrediction reports whether the trained model labeled the row
func (r ResultRow) MLPrediction() bool {
	_, ok := r.Outcome.(MLResult)
	return ok
}

// ResultTable is the output of one Analyze call, rows in request order
type ResultTable struct {
	RunID        core.RunID
	CreatedAt    time.Time
	Sensitivity  float64
	ModelVersion string
	Rows         []ResultRow
}

// Counts tallies rows by how they were labeled
func (t *ResultTable) Counts() (ml, fallback, unavailable int) {
	for _, r := range t.Rows {
		switch r.Outcome.(type) {
		case MLResult:
			ml++
		case FallbackResult:
			fallback++
		default:
			unavailable++
		}
	}
	return ml, fallback, unavailable
}
