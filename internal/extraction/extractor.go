package extraction

import (
	"math"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
	"distsim/internal"
	"distsim/internal/descriptive"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Epsilon is added to every ratio and percentage denominator
const Epsilon = 1e-10

// percentileLevels are the per-side percentiles, paired with their feature names
var percentileLevels = []struct {
	p          float64
	input, ref features.Name
}{
	{1, features.P1Input, features.P1Reference},
	{5, features.P5Input, features.P5Reference},
	{25, features.P25Input, features.P25Reference},
	{75, features.P75Input, features.P75Reference},
	{95, features.P95Input, features.P95Reference},
	{99, features.P99Input, features.P99Reference},
}

// Extractor computes the statistical feature vector comparing an input series
// with its reference series.
type Extractor struct {
	logger *internal.Logger
}

// NewExtractor creates a feature extractor
func NewExtractor(logger *internal.Logger) *Extractor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Extractor{logger: logger}
}

// ExtractFeatures is the stateless form of Extractor.Extract for an unnamed test
func ExtractFeatures(input, reference []float64) (features.Vector, error) {
	return NewExtractor(nil).Extract(similarity.TestIdentity{}, input, reference)
}

// summary holds the per-side statistics everything else derives from
type summary struct {
	n                float64
	mean, std        float64
	min, max, median float64
	p25, p75         float64
	skew, kurt       float64
	percentiles      []float64
}

func summarize(data []float64) summary {
	s := summary{n: float64(len(data))}
	s.mean = nanOnError(stats.Mean(data))
	s.std = nanOnError(stats.StandardDeviationSample(data))
	s.min = nanOnError(stats.Min(data))
	s.max = nanOnError(stats.Max(data))
	s.median = nanOnError(stats.Median(data))

	sorted := descriptive.SortedCopy(data)
	s.percentiles = make([]float64, len(percentileLevels))
	for i, lvl := range percentileLevels {
		s.percentiles[i] = descriptive.Percentile(sorted, lvl.p)
	}
	s.p25 = descriptive.Percentile(sorted, 25)
	s.p75 = descriptive.Percentile(sorted, 75)

	// zero spread has no shape; report it as symmetric and mesokurtic
	if s.std == 0 {
		s.skew, s.kurt = 0, 0
	} else {
		s.skew = stat.Skew(data, nil)
		s.kurt = stat.ExKurtosis(data, nil)
	}
	return s
}

// Extract drops missing values from both series independently and computes
// the feature vector. Features that cannot be computed are omitted; an empty
// side is an ErrDataAbsent error.
func (e *Extractor) Extract(test similarity.TestIdentity, input, reference []float64) (features.Vector, error) {
	in := descriptive.DropNaN(input)
	ref := descriptive.DropNaN(reference)
	if len(in) == 0 {
		return features.Vector{}, core.NewDataAbsentError(test.Name, string(similarity.SourceInput))
	}
	if len(ref) == 0 {
		return features.Vector{}, core.NewDataAbsentError(test.Name, string(similarity.SourceReference))
	}

	si := summarize(in)
	sr := summarize(ref)

	v := features.NewVector(test)
	set := func(name features.Name, value float64) {
		if !v.Set(name, value) {
			e.logger.Debug("Omitting feature: %v", core.NewFeatureComputationError(name.String(), test.Name))
		}
	}

	// Location and spread
	set(features.MeanInput, si.mean)
	set(features.MeanReference, sr.mean)
	set(features.StdInput, si.std)
	set(features.StdReference, sr.std)
	set(features.MinInput, si.min)
	set(features.MinReference, sr.min)
	set(features.MaxInput, si.max)
	set(features.MaxReference, sr.max)
	set(features.MedianInput, si.median)
	set(features.MedianReference, sr.median)

	for i, lvl := range percentileLevels {
		set(lvl.input, si.percentiles[i])
		set(lvl.ref, sr.percentiles[i])
	}

	// Shape
	set(features.SkewInput, si.skew)
	set(features.SkewReference, sr.skew)
	set(features.KurtInput, si.kurt)
	set(features.KurtReference, sr.kurt)
	set(features.SkewDiff, math.Abs(si.skew-sr.skew))
	set(features.KurtDiff, math.Abs(si.kurt-sr.kurt))

	// Cross-side divergence
	meanDiff := math.Abs(si.mean - sr.mean)
	stdDiff := math.Abs(si.std - sr.std)
	set(features.MeanDiffAbs, meanDiff)
	set(features.StdDiff, stdDiff)
	set(features.MeanDiffPct, meanDiff/(math.Abs(sr.mean)+Epsilon)*100)
	set(features.StdDiffPct, stdDiff/(sr.std+Epsilon)*100)
	set(features.MeanRatio, si.mean/(sr.mean+Epsilon))
	set(features.StdRatio, si.std/(sr.std+Epsilon))

	ks, pValue := KolmogorovSmirnov(in, ref)
	set(features.KSStatistic, ks)
	set(features.KSPValue, pValue)

	// IQR. Quartile percentages share the reference IQR as denominator.
	iqrIn := si.p75 - si.p25
	iqrRef := sr.p75 - sr.p25
	set(features.IQRInput, iqrIn)
	set(features.IQRReference, iqrRef)
	set(features.IQRDiff, math.Abs(iqrIn-iqrRef))
	set(features.IQRRatio, iqrIn/(iqrRef+Epsilon))
	set(features.IQROverlap, math.Min(si.p75, sr.p75)-math.Max(si.p25, sr.p25))
	set(features.RDRS, meanDiff/(iqrRef+Epsilon))
	set(features.PRatio, iqrIn/(iqrRef+Epsilon))
	q1 := math.Abs(si.p25-sr.p25) / (iqrRef + Epsilon) * 100
	q3 := math.Abs(si.p75-sr.p75) / (iqrRef + Epsilon) * 100
	set(features.Q1DiffPct, q1)
	set(features.Q3DiffPct, q3)
	set(features.QuartileDiff, math.Max(q1, q3))

	// Range
	rangeIn := si.max - si.min
	rangeRef := sr.max - sr.min
	set(features.RangeInput, rangeIn)
	set(features.RangeReference, rangeRef)
	set(features.RangeRatio, rangeIn/(rangeRef+Epsilon))

	// Sample size
	set(features.NInput, si.n)
	set(features.NReference, sr.n)
	set(features.NRatio, si.n/(sr.n+Epsilon))

	// Coefficient of variation
	cvIn := si.std / (math.Abs(si.mean) + Epsilon)
	cvRef := sr.std / (math.Abs(sr.mean) + Epsilon)
	set(features.CVInput, cvIn)
	set(features.CVReference, cvRef)
	set(features.CVDiff, math.Abs(cvIn-cvRef))

	return v, nil
}

func nanOnError(v float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return v
}
