package classifier

import (
	"fmt"

	"distsim/domain/core"
	"distsim/domain/similarity"
)

// LabelEncoder maps booster output indices to similarity labels
type LabelEncoder struct {
	classes []similarity.Label
}

// IdentityEncoder maps index i to the label with integer value i
func IdentityEncoder() LabelEncoder {
	return LabelEncoder{classes: similarity.Labels()}
}

// NewLabelEncoder builds an encoder from the class names in booster index order
func NewLabelEncoder(classes []string) (LabelEncoder, error) {
	if len(classes) == 0 {
		return LabelEncoder{}, fmt.Errorf("label encoder needs at least one class")
	}
	seen := make(map[similarity.Label]bool, len(classes))
	labels := make([]similarity.Label, len(classes))
	for i, name := range classes {
		l, err := similarity.ParseLabel(name)
		if err != nil {
			return LabelEncoder{}, err
		}
		if seen[l] {
			return LabelEncoder{}, fmt.Errorf("duplicate class %q in label encoder", name)
		}
		seen[l] = true
		labels[i] = l
	}
	return LabelEncoder{classes: labels}, nil
}

// Decode returns the label for a booster class index
func (e LabelEncoder) Decode(idx int) (similarity.Label, error) {
	if idx < 0 || idx >= len(e.classes) {
		return 0, fmt.Errorf("%w: class index %d", core.ErrUnknownLabel, idx)
	}
	return e.classes[idx], nil
}

// Encode returns the booster class index for a label
func (e LabelEncoder) Encode(l similarity.Label) (int, error) {
	for i, c := range e.classes {
		if c == l {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", core.ErrUnknownLabel, l)
}

// Classes returns the class names in index order
func (e LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	for i, c := range e.classes {
		out[i] = c.String()
	}
	return out
}

// Len is the number of classes
func (e LabelEncoder) Len() int {
	return len(e.classes)
}
