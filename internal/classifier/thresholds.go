package classifier

import (
	"fmt"
	"math"
	"strconv"

	"distsim/internal/descriptive"
)

// NumSensitivityLevels is the number of threshold entries, one per 0.1 step of [0, 1]
const NumSensitivityLevels = 11

// SensitivityThresholds maps each sensitivity level 0.0, 0.1, ... 1.0 to the
// minimum confidence a prediction needs to be kept as-is.
type SensitivityThresholds [NumSensitivityLevels]float64

// DefaultThresholds is used when a model ships without a components sidecar
func DefaultThresholds() SensitivityThresholds {
	return SensitivityThresholds{0.70, 0.75, 0.80, 0.85, 0.87, 0.90, 0.92, 0.94, 0.96, 0.98, 0.99}
}

// SensitivityKey clips s to [0, 1] and rounds it to the nearest 0.1 step,
// returned as an index into the table.
func SensitivityKey(s float64) int {
	return int(math.Round(descriptive.Clip(s, 0, 1) * 10))
}

// Lookup returns the threshold for the nearest 0.1 sensitivity step
func (t SensitivityThresholds) Lookup(sensitivity float64) float64 {
	return t[SensitivityKey(sensitivity)]
}

// Map returns the table keyed the way the components sidecar stores it ("0.0" ... "1.0")
func (t SensitivityThresholds) Map() map[string]float64 {
	m := make(map[string]float64, NumSensitivityLevels)
	for i, v := range t {
		m[levelKey(i)] = v
	}
	return m
}

func levelKey(i int) string {
	return strconv.FormatFloat(float64(i)/10, 'f', 1, 64)
}

// parseLevel maps a sidecar key such as "0.3" or "1" to its table index
func parseLevel(key string) (int, error) {
	f, err := strconv.ParseFloat(key, 64)
	if err != nil || f < 0 || f > 1 {
		return 0, fmt.Errorf("invalid sensitivity level %q", key)
	}
	idx := int(math.Round(f * 10))
	if math.Abs(f*10-float64(idx)) > 1e-6 {
		return 0, fmt.Errorf("sensitivity level %q is not a 0.1 step", key)
	}
	return idx, nil
}

// ThresholdsFromConfidences builds the table from the confidence scores a
// trained model produced on held-out data: level s gets the (1-s)*100th
// percentile. Thresholds therefore fall as sensitivity rises, the reverse of
// DefaultThresholds, and more high-sensitivity predictions keep their label.
func ThresholdsFromConfidences(confidences []float64) (SensitivityThresholds, error) {
	var t SensitivityThresholds
	clean := descriptive.DropNaN(confidences)
	if len(clean) == 0 {
		return t, fmt.Errorf("no confidence scores to derive thresholds from")
	}
	sorted := descriptive.SortedCopy(clean)
	for i := range t {
		s := float64(i) / 10
		t[i] = descriptive.Percentile(sorted, (1-s)*100)
	}
	return t, nil
}
