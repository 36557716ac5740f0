package sampling

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"distsim/internal"
	"distsim/internal/descriptive"
)

const (
	// DefaultSampleSize is the representative subset size used for comparison and plotting
	DefaultSampleSize = 201

	// maxStrata caps the number of percentile strata per column
	maxStrata = 20
)

// Sampler reduces large measurement series to a fixed-size representative
// subset by stratified percentile binning.
type Sampler struct {
	nSamples int
	logger   *internal.Logger
}

// NewSampler creates a sampler targeting nSamples rows (DefaultSampleSize when <= 0)
func NewSampler(nSamples int, logger *internal.Logger) *Sampler {
	if nSamples <= 0 {
		nSamples = DefaultSampleSize
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Sampler{nSamples: nSamples, logger: logger}
}

// Size returns the target sample size
func (s *Sampler) Size() int {
	return s.nSamples
}

// SampleIndices selects at most nSamples row indices from table, where table
// holds parallel columns of equal length (rows are units). Rows with a missing
// value in any column are never selected. The result is ascending and unique.
func SampleIndices(table [][]float64, nSamples int, rng *rand.Rand) []int {
	return NewSampler(nSamples, nil).SampleIndices(table, rng)
}

// SampleIndices is the method form of the package-level SampleIndices
func (s *Sampler) SampleIndices(table [][]float64, rng *rand.Rand) []int {
	totalRows := rowCount(table)
	valid := validRows(table, totalRows)
	if len(valid) == 0 {
		return []int{}
	}
	if totalRows <= s.nSamples {
		return valid
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	positions, ok := s.stratify(table, valid, rng)
	if !ok {
		s.logger.Debug("Stratification degenerate over %d rows, using uniform sampling", len(valid))
		positions = chooseK(rng, seq(len(valid)), min(s.nSamples, len(valid)))
	}

	switch {
	case len(positions) > s.nSamples:
		positions = chooseK(rng, positions, s.nSamples)
	case len(positions) < s.nSamples:
		remaining := complement(positions, len(valid))
		if len(remaining) > 0 {
			extra := chooseK(rng, remaining, min(s.nSamples-len(positions), len(remaining)))
			positions = append(positions, extra...)
		}
	}

	sort.Ints(positions)
	indices := make([]int, len(positions))
	for i, p := range positions {
		indices[i] = valid[p]
	}
	return indices
}

// SampleSeries returns the representative subset of a single cleaned series,
// preserving the original order of the selected values.
func (s *Sampler) SampleSeries(series []float64, rng *rand.Rand) []float64 {
	indices := s.SampleIndices([][]float64{series}, rng)
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = series[idx]
	}
	return out
}

// stratify draws per-stratum samples from every column and returns the union
// of positions (indices into valid). ok is false when no usable strata exist.
func (s *Sampler) stratify(table [][]float64, valid []int, rng *rand.Rand) ([]int, bool) {
	selected := make([]bool, len(valid))
	count := 0

	for _, column := range table {
		colData := make([]float64, len(valid))
		for p, row := range valid {
			colData[p] = column[row]
		}

		numStrata := min(maxStrata, len(colData))
		bounds := descriptive.Percentiles(colData, descriptive.Linspace(0, 100, numStrata)...)
		for _, b := range bounds {
			if math.IsNaN(b) || math.IsInf(b, 0) {
				return nil, false
			}
		}
		perStratum := max(1, s.nSamples/numStrata)

		for i := 0; i < len(bounds)-1; i++ {
			var members []int
			for p, v := range colData {
				if v >= bounds[i] && v < bounds[i+1] {
					members = append(members, p)
				}
			}
			if len(members) == 0 {
				continue
			}
			for _, p := range chooseK(rng, members, min(perStratum, len(members))) {
				if !selected[p] {
					selected[p] = true
					count++
				}
			}
		}
	}

	if count == 0 {
		return nil, false
	}
	positions := make([]int, 0, count)
	for p, ok := range selected {
		if ok {
			positions = append(positions, p)
		}
	}
	return positions, true
}

func rowCount(table [][]float64) int {
	if len(table) == 0 {
		return 0
	}
	n := len(table[0])
	for _, col := range table[1:] {
		n = max(n, len(col))
	}
	return n
}

// validRows returns the ascending row indices with a finite value in every column
func validRows(table [][]float64, totalRows int) []int {
	valid := make([]int, 0, totalRows)
	for row := 0; row < totalRows; row++ {
		ok := true
		for _, col := range table {
			if row >= len(col) || math.IsNaN(col[row]) || math.IsInf(col[row], 0) {
				ok = false
				break
			}
		}
		if ok {
			valid = append(valid, row)
		}
	}
	return valid
}

// chooseK draws k distinct elements of pool uniformly without replacement
func chooseK(rng *rand.Rand, pool []int, k int) []int {
	work := make([]int, len(pool))
	copy(work, pool)
	if k > len(work) {
		k = len(work)
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k]
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// complement returns 0..n-1 minus taken, ascending
func complement(taken []int, n int) []int {
	used := make([]bool, n)
	for _, p := range taken {
		used[p] = true
	}
	out := make([]int, 0, n-len(taken))
	for p := 0; p < n; p++ {
		if !used[p] {
			out = append(out, p)
		}
	}
	return out
}
