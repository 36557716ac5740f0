package labeling

import (
	"math"

	"distsim/domain/features"
	"distsim/domain/measurement"
	"distsim/domain/similarity"
)

const eps = 1e-10

// Sync class cut-offs on (RDRS, PRatio). Class 1 and class 2 both count as similar.
var syncClasses = []struct{ rdrs, pratio float64 }{
	{0.8, 1.2},
	{1.5, 2.0},
}

// Class 3 bounds, all in percent
const (
	moderateMeanPct     = 100
	moderateStdPct      = 100
	moderateQuartilePct = 100

	// limitsTolerancePct is the largest relative LSL/USL change still counted as matching
	limitsTolerancePct = 15
)

// Assessment is the Tech-Sync verdict for one test with the metrics that produced it
type Assessment struct {
	Test        similarity.TestIdentity
	Label       similarity.Label
	RDRS        float64
	PRatio      float64
	MeanDiffPct float64
	StdDiffPct  float64
	Q1DiffPct   float64
	Q3DiffPct   float64
	SkewDiff    float64
	KurtDiff    float64
	LimitsMatch bool
}

// stats are the vector values the rule set reads
type stats struct {
	meanIn, meanRef float64
	stdIn, stdRef   float64
	p25In, p25Ref   float64
	p75In, p75Ref   float64
	skewIn, skewRef float64
	kurtIn, kurtRef float64
}

func readStats(v features.Vector) (stats, error) {
	required := []features.Name{
		features.MeanInput, features.MeanReference,
		features.StdInput, features.StdReference,
		features.P25Input, features.P25Reference,
		features.P75Input, features.P75Reference,
	}
	row, err := v.Project(required)
	if err != nil {
		return stats{}, err
	}
	s := stats{
		meanIn: row[0], meanRef: row[1],
		stdIn: row[2], stdRef: row[3],
		p25In: row[4], p25Ref: row[5],
		p75In: row[6], p75Ref: row[7],
	}
	// shape features default to 0 when absent
	s.skewIn, _ = v.Get(features.SkewInput)
	s.skewRef, _ = v.Get(features.SkewReference)
	s.kurtIn, _ = v.Get(features.KurtInput)
	s.kurtRef, _ = v.Get(features.KurtReference)
	return s, nil
}

// Assess labels a feature vector with the Tech-Sync rules. Limits on each side
// only take part in LimitsMatch, never in the label.
func Assess(v features.Vector, input, reference measurement.Limits) (Assessment, error) {
	s, err := readStats(v)
	if err != nil {
		return Assessment{}, err
	}

	a := Assessment{Test: v.Test}
	iqrIn := s.p75In - s.p25In
	iqrRef := s.p75Ref - s.p25Ref

	if s.meanIn != 0 || s.meanRef != 0 {
		a.RDRS = math.Abs(s.meanIn-s.meanRef) / (iqrRef + eps)
		a.MeanDiffPct = math.Abs(s.meanIn-s.meanRef) / (math.Abs(s.meanRef) + eps) * 100
	}
	a.PRatio = 1
	if iqrIn != 0 || iqrRef != 0 {
		a.PRatio = iqrIn / (iqrRef + eps)
		a.Q1DiffPct = math.Abs(s.p25In-s.p25Ref) / (iqrRef + eps) * 100
		a.Q3DiffPct = math.Abs(s.p75In-s.p75Ref) / (iqrRef + eps) * 100
	}
	if s.stdIn != 0 || s.stdRef != 0 {
		a.StdDiffPct = math.Abs(s.stdIn-s.stdRef) / (s.stdRef + eps) * 100
	}
	a.SkewDiff = math.Abs(s.skewIn - s.skewRef)
	a.KurtDiff = math.Abs(s.kurtIn - s.kurtRef)
	a.LimitsMatch = LimitsMatch(input, reference)

	quartileDiff := math.Max(a.Q1DiffPct, a.Q3DiffPct)
	switch {
	case inSyncClass(a.RDRS, a.PRatio):
		a.Label = similarity.SimilarDistribution
	case a.MeanDiffPct <= moderateMeanPct && a.StdDiffPct <= moderateStdPct && quartileDiff <= moderateQuartilePct:
		a.Label = similarity.ModeratelySimilar
	default:
		a.Label = similarity.CompletelyDifferent
	}

	// constant series with equal values are judged on shape alone
	if s.meanIn == s.meanRef && s.stdIn == 0 && s.stdRef == 0 {
		switch {
		case a.SkewDiff <= 0.2 && a.KurtDiff <= 0.4:
			a.Label = similarity.SimilarDistribution
		case a.SkewDiff <= 0.6 && a.KurtDiff <= 1.0:
			a.Label = similarity.ModeratelySimilar
		}
	}
	return a, nil
}

func inSyncClass(rdrs, pratio float64) bool {
	for _, c := range syncClasses {
		if rdrs <= c.rdrs && pratio <= c.pratio {
			return true
		}
	}
	return false
}

// LimitsMatch reports whether each limit set on both sides differs by less
// than 15% relative to the reference. A limit missing on either side is skipped.
func LimitsMatch(input, reference measurement.Limits) bool {
	return limitMatches(input.LSL, reference.LSL) && limitMatches(input.USL, reference.USL)
}

func limitMatches(in, ref *float64) bool {
	if in == nil || ref == nil || math.IsNaN(*in) || math.IsNaN(*ref) {
		return true
	}
	if *in == 0 && *ref == 0 {
		return true
	}
	return math.Abs(*in-*ref)/(math.Abs(*ref)+eps)*100 < limitsTolerancePct
}
