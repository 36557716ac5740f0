package analysis

import (
	"math"

	"distsim/internal/descriptive"

	"github.com/montanaflynn/stats"
)

// Cpk is the process capability of values against the given limits: the
// smaller of the upper and lower one-sided indices that exist, rounded to
// two decimals. It is NaN with no limits, fewer than two values or zero spread.
func Cpk(values []float64, lsl, usl *float64) float64 {
	if lsl == nil && usl == nil {
		return math.NaN()
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	std, err := stats.StandardDeviationSample(values)
	if err != nil || std == 0 || math.IsNaN(std) {
		return math.NaN()
	}

	cpk := math.NaN()
	if usl != nil {
		cpk = (*usl - mean) / (3 * std)
	}
	if lsl != nil {
		cpl := (mean - *lsl) / (3 * std)
		if math.IsNaN(cpk) {
			cpk = cpl
		} else {
			cpk = math.Min(cpk, cpl)
		}
	}
	return descriptive.Round(cpk, 2)
}

// YieldStats are pass/fail rates in percent
type YieldStats struct {
	Yield         float64
	YieldLoss     float64
	RejectionRate float64
}

// Yield counts values outside the limits. An empty series yields all zeros.
func Yield(values []float64, lsl, usl *float64) YieldStats {
	total := len(values)
	if total == 0 {
		return YieldStats{}
	}
	failures := 0
	for _, v := range values {
		if (lsl != nil && v < *lsl) || (usl != nil && v > *usl) {
			failures++
		}
	}
	loss := descriptive.Round(float64(failures)/float64(total)*100, 2)
	return YieldStats{
		Yield:         descriptive.Round(float64(total-failures)/float64(total)*100, 2),
		YieldLoss:     loss,
		RejectionRate: loss,
	}
}

// Describe holds the basic statistics reported for the sampled input series
type Describe struct {
	Min, Max, Mean, Std float64
}

// describe rounds to 8 decimals; undefined values are NaN
func describe(values []float64) Describe {
	d := Describe{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN(), Std: math.NaN()}
	if v, err := stats.Min(values); err == nil {
		d.Min = descriptive.Round(v, 8)
	}
	if v, err := stats.Max(values); err == nil {
		d.Max = descriptive.Round(v, 8)
	}
	if v, err := stats.Mean(values); err == nil {
		d.Mean = descriptive.Round(v, 8)
	}
	if v, err := stats.StandardDeviationSample(values); err == nil {
		d.Std = descriptive.Round(v, 8)
	}
	return d
}

// ReportedPercentiles are the percentile levels carried on every result row
var ReportedPercentiles = [6]float64{1, 5, 25, 75, 95, 99}

// percentiles returns the reported percentiles rounded to 8 decimals, NaN when values is empty
func percentiles(values []float64) [6]float64 {
	var out [6]float64
	p := descriptive.Percentiles(values, ReportedPercentiles[:]...)
	for i := range out {
		out[i] = descriptive.Round(p[i], 8)
	}
	return out
}
