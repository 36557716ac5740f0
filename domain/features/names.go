package features

import (
	"fmt"

	"distsim/domain/core"
)

// Name is a closed enumeration of every feature the extractor can produce.
// Model artifacts persist their column lists as the string forms below.
type Name int

const (
	MeanInput Name = iota
	MeanReference
	StdInput
	StdReference
	MinInput
	MinReference
	MaxInput
	MaxReference
	MedianInput
	MedianReference

	P1Input
	P1Reference
	P5Input
	P5Reference
	P25Input
	P25Reference
	P75Input
	P75Reference
	P95Input
	P95Reference
	P99Input
	P99Reference

	SkewInput
	SkewReference
	KurtInput
	KurtReference

	MeanDiffAbs
	StdDiff
	MeanDiffPct
	StdDiffPct
	MeanRatio
	StdRatio

	KSStatistic
	KSPValue

	IQRInput
	IQRReference
	IQRDiff
	IQRRatio
	IQROverlap
	RDRS
	PRatio
	Q1DiffPct
	Q3DiffPct
	QuartileDiff

	SkewDiff
	KurtDiff

	RangeInput
	RangeReference
	RangeRatio

	NInput
	NReference
	NRatio

	CVInput
	CVReference
	CVDiff

	numNames
)

// Count is the number of known features
const Count = int(numNames)

var names = [Count]string{
	MeanInput:       "mean_input",
	MeanReference:   "mean_reference",
	StdInput:        "std_input",
	StdReference:    "std_reference",
	MinInput:        "min_input",
	MinReference:    "min_reference",
	MaxInput:        "max_input",
	MaxReference:    "max_reference",
	MedianInput:     "median_input",
	MedianReference: "median_reference",

	P1Input:      "p1_input",
	P1Reference:  "p1_reference",
	P5Input:      "p5_input",
	P5Reference:  "p5_reference",
	P25Input:     "p25_input",
	P25Reference: "p25_reference",
	P75Input:     "p75_input",
	P75Reference: "p75_reference",
	P95Input:     "p95_input",
	P95Reference: "p95_reference",
	P99Input:     "p99_input",
	P99Reference: "p99_reference",

	SkewInput:     "skew_input",
	SkewReference: "skew_reference",
	KurtInput:     "kurt_input",
	KurtReference: "kurt_reference",

	MeanDiffAbs: "mean_diff_abs",
	StdDiff:     "std_diff",
	MeanDiffPct: "mean_diff_pct",
	StdDiffPct:  "std_diff_pct",
	MeanRatio:   "mean_ratio",
	StdRatio:    "std_ratio",

	KSStatistic: "ks_statistic",
	KSPValue:    "ks_pvalue",

	IQRInput:     "iqr_input",
	IQRReference: "iqr_reference",
	IQRDiff:      "iqr_diff",
	IQRRatio:     "iqr_ratio",
	IQROverlap:   "iqr_overlap",
	RDRS:         "rdrs",
	PRatio:       "pratio",
	Q1DiffPct:    "q1_diff_pct",
	Q3DiffPct:    "q3_diff_pct",
	QuartileDiff: "quartile_diff",

	SkewDiff: "skew_diff",
	KurtDiff: "kurt_diff",

	RangeInput:     "range_input",
	RangeReference: "range_reference",
	RangeRatio:     "range_ratio",

	NInput:     "n_input",
	NReference: "n_reference",
	NRatio:     "n_ratio",

	CVInput:     "cv_input",
	CVReference: "cv_reference",
	CVDiff:      "cv_diff",
}

// aliases are alternate persisted names accepted on read. Training sidecars
// list the absolute std difference as std_diff_abs.
var aliases = map[string]Name{
	"std_diff_abs": StdDiff,
}

var byString = func() map[string]Name {
	m := make(map[string]Name, Count+len(aliases))
	for i, s := range names {
		m[s] = Name(i)
	}
	for s, n := range aliases {
		m[s] = n
	}
	return m
}()

// String returns the persisted column name
func (n Name) String() string {
	if n < 0 || n >= numNames {
		return fmt.Sprintf("Name(%d)", int(n))
	}
	return names[n]
}

// ParseName resolves a persisted column name
func ParseName(s string) (Name, error) {
	if n, ok := byString[s]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", core.ErrUnknownFeature, s)
}

// ParseNames resolves an ordered column list, failing on the first unknown name
func ParseNames(ss []string) ([]Name, error) {
	out := make([]Name, 0, len(ss))
	for _, s := range ss {
		n, err := ParseName(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// All returns every feature in declaration order
func All() []Name {
	out := make([]Name, Count)
	for i := range out {
		out[i] = Name(i)
	}
	return out
}

// DefaultColumns is the column list assumed when a model ships without a
// components sidecar: every extracted feature, in declaration order.
func DefaultColumns() []Name {
	return All()
}
