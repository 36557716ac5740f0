package ports

import "distsim/domain/similarity"

// MeasurementTable is the read-only view of one parsed measurement file.
// Columns are keyed by test number; missing measurements are NaN.
type MeasurementTable interface {
	// Tests lists every test in column order
	Tests() []similarity.TestIdentity

	// LookupTest resolves a report-facing test name to its identity
	LookupTest(name string) (similarity.TestIdentity, bool)

	// Column returns the raw per-unit series for a test number
	Column(testNumber string) ([]float64, bool)

	// Limits returns the specification limits for a test number; nil means unset
	Limits(testNumber string) (lsl, usl *float64)
}
