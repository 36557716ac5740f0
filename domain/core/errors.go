package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data errors
	ErrDataAbsent     = errors.New("no valid data")
	ErrMalformedTable = errors.New("malformed measurement table")

	// Feature errors
	ErrFeatureMissing     = errors.New("feature missing from vector")
	ErrFeatureComputation = errors.New("feature computation failed")
	ErrUnknownFeature     = errors.New("unknown feature name")

	// Model errors
	ErrModelUnavailable = errors.New("trained model unavailable")
	ErrPrediction       = errors.New("model prediction failed")
	ErrUnknownLabel     = errors.New("unknown similarity label")

	// Request errors
	ErrInvalidSensitivity = errors.New("sensitivity must be a number in [0, 1]")
)

// NewDataAbsentError reports a test whose series is missing or empty on one side
func NewDataAbsentError(testName, source string) error {
	return fmt.Errorf("%w for test %s (%s)", ErrDataAbsent, testName, source)
}

// NewFeatureMissingError reports a model feature column the vector does not carry
func NewFeatureMissingError(feature string) error {
	return fmt.Errorf("%w: %s", ErrFeatureMissing, feature)
}

// NewFeatureComputationError reports a feature whose value came out undefined
func NewFeatureComputationError(feature, testName string) error {
	return fmt.Errorf("%w: %s undefined for test %s", ErrFeatureComputation, feature, testName)
}

// NewModelUnavailableError wraps the reason a model artifact could not be loaded
func NewModelUnavailableError(path string, err error) error {
	return fmt.Errorf("%w at %s: %v", ErrModelUnavailable, path, err)
}

// NewPredictionError wraps a booster failure
func NewPredictionError(err error) error {
	return fmt.Errorf("%w: %v", ErrPrediction, err)
}

// IsDataAbsent reports whether err was caused by missing test data
func IsDataAbsent(err error) bool {
	return errors.Is(err, ErrDataAbsent)
}

// IsModelError reports whether err should trigger the rule-based fallback
func IsModelError(err error) bool {
	return errors.Is(err, ErrModelUnavailable) ||
		errors.Is(err, ErrPrediction) ||
		errors.Is(err, ErrFeatureMissing)
}
