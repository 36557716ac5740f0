package features

import (
	"math"

	"distsim/domain/core"
	"distsim/domain/similarity"
)

// Vector is a fixed-schema feature record for one test. Features that could
// not be computed are absent rather than NaN.
type Vector struct {
	Test    similarity.TestIdentity
	values  [Count]float64
	present [Count]bool
}

// NewVector creates an empty vector for a test
func NewVector(test similarity.TestIdentity) Vector {
	return Vector{Test: test}
}

// Set stores a feature value. Non-finite values are treated as a failed
// computation and leave the feature absent; Set reports whether it was stored.
func (v *Vector) Set(n Name, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.present[n] = false
		return false
	}
	v.values[n] = value
	v.present[n] = true
	return true
}

// Get returns a feature value and whether it is present
func (v Vector) Get(n Name) (float64, bool) {
	return v.values[n], v.present[n]
}

// Has reports whether a feature is present
func (v Vector) Has(n Name) bool {
	return v.present[n]
}

// Len returns the number of present features
func (v Vector) Len() int {
	count := 0
	for _, ok := range v.present {
		if ok {
			count++
		}
	}
	return count
}

// Project returns the values for columns in order. Extra features are ignored;
// a column the vector does not carry is an error.
func (v Vector) Project(columns []Name) ([]float64, error) {
	row := make([]float64, len(columns))
	for i, col := range columns {
		if !v.present[col] {
			return nil, core.NewFeatureMissingError(col.String())
		}
		row[i] = v.values[col]
	}
	return row, nil
}

// Map returns the present features keyed by persisted name
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, v.Len())
	for i, ok := range v.present {
		if ok {
			m[names[i]] = v.values[i]
		}
	}
	return m
}
