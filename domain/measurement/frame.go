package measurement

import (
	"fmt"

	"distsim/domain/core"
	"distsim/domain/similarity"
)

// Limits holds the specification limits of one test; nil means unset
type Limits struct {
	LSL *float64
	USL *float64
}

// Frame is an in-memory measurement table: one numeric column per test, rows
// are tested units. It satisfies ports.MeasurementTable.
type Frame struct {
	tests   []similarity.TestIdentity
	byName  map[string]int
	columns map[string][]float64
	limits  map[string]Limits
}

// NewFrame creates an empty frame
func NewFrame() *Frame {
	return &Frame{
		byName:  make(map[string]int),
		columns: make(map[string][]float64),
		limits:  make(map[string]Limits),
	}
}

// AddTest appends a test column. Test names and numbers must stay 1:1 within a frame.
func (f *Frame) AddTest(test similarity.TestIdentity, values []float64, limits Limits) error {
	if test.Name == "" || test.Number == "" {
		return fmt.Errorf("%w: test identity requires name and number, got %q/%q", core.ErrMalformedTable, test.Name, test.Number)
	}
	if _, dup := f.byName[test.Name]; dup {
		return fmt.Errorf("%w: duplicate test name %s", core.ErrMalformedTable, test.Name)
	}
	if _, dup := f.columns[test.Number]; dup {
		return fmt.Errorf("%w: duplicate test number %s", core.ErrMalformedTable, test.Number)
	}

	f.byName[test.Name] = len(f.tests)
	f.tests = append(f.tests, test)
	f.columns[test.Number] = values
	f.limits[test.Number] = limits
	return nil
}

// Tests lists every test in column order
func (f *Frame) Tests() []similarity.TestIdentity {
	out := make([]similarity.TestIdentity, len(f.tests))
	copy(out, f.tests)
	return out
}

// LookupTest resolves a test name
func (f *Frame) LookupTest(name string) (similarity.TestIdentity, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return similarity.TestIdentity{}, false
	}
	return f.tests[idx], true
}

// Column returns the raw series for a test number
func (f *Frame) Column(testNumber string) ([]float64, bool) {
	col, ok := f.columns[testNumber]
	return col, ok
}

// Limits returns the LSL/USL of a test number
func (f *Frame) Limits(testNumber string) (lsl, usl *float64) {
	l := f.limits[testNumber]
	return l.LSL, l.USL
}

// Len returns the number of tests
func (f *Frame) Len() int {
	return len(f.tests)
}

// Float returns a pointer to v, for building Limits literals
func Float(v float64) *float64 {
	return &v
}
