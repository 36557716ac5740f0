package similarity

import (
	"fmt"
	"strings"

	"distsim/domain/core"
)

// Label is the similarity category of an input distribution against its reference.
// Ordering represents increasing divergence.
type Label int

const (
	SimilarDistribution Label = iota
	ModeratelySimilar
	CompletelyDifferent
)

// NumLabels is the number of similarity classes
const NumLabels = 3

var labelNames = [NumLabels]string{
	"Similar distribution",
	"Moderately similar",
	"Completely different",
}

// String returns the report-facing label text
func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Valid reports whether l is one of the three known classes
func (l Label) Valid() bool {
	return l >= SimilarDistribution && l <= CompletelyDifferent
}

// MarshalText implements encoding.TextMarshaler
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownLabel, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel maps report text back to a Label, case-insensitively
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	for i, name := range labelNames {
		if strings.EqualFold(name, s) {
			return Label(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", core.ErrUnknownLabel, s)
}

// Labels returns all classes in encoded order
func Labels() []Label {
	return []Label{SimilarDistribution, ModeratelySimilar, CompletelyDifferent}
}

// Source distinguishes the two sides of a comparison
type Source string

const (
	SourceInput     Source = "input"
	SourceReference Source = "reference"
)

// TestIdentity identifies a test inside one measurement file. The number keys
// column lookups, the name keys reports.
type TestIdentity struct {
	Name   string `json:"test_name"`
	Number string `json:"test_number"`
}

func (t TestIdentity) String() string {
	if t.Number == "" {
		return t.Name
	}
	return fmt.Sprintf("%s (%s)", t.Name, t.Number)
}

// RuleBasedVersion is the model version reported for fallback classifications
const RuleBasedVersion = "rule_based"

// ClassificationResult is the immutable outcome of classifying one test
type ClassificationResult struct {
	Test         TestIdentity `json:"test"`
	Label        Label        `json:"predicted_label"`
	Confidence   float64      `json:"confidence_score"`
	Sensitivity  float64      `json:"sensitivity_level"`
	ModelVersion string       `json:"model_version"`
	MLPrediction bool         `json:"ml_prediction"`
}
