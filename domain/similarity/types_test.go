package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelRoundTripText(t *testing.T) {
	for _, l := range Labels() {
		text, err := l.MarshalText()
		require.NoError(t, err)

		var parsed Label
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, l, parsed)
	}
}

func TestLabelOrdering(t *testing.T) {
	assert.Equal(t, 0, int(SimilarDistribution))
	assert.Equal(t, 1, int(ModeratelySimilar))
	assert.Equal(t, 2, int(CompletelyDifferent))
	assert.Equal(t, "Completely different", CompletelyDifferent.String())
}

func TestParseLabel(t *testing.T) {
	l, err := ParseLabel("  moderately SIMILAR ")
	require.NoError(t, err)
	assert.Equal(t, ModeratelySimilar, l)

	_, err = ParseLabel("identical")
	assert.Error(t, err)

	assert.False(t, Label(7).Valid())
	_, err = Label(-1).MarshalText()
	assert.Error(t, err)
}

func TestTestIdentityString(t *testing.T) {
	assert.Equal(t, "IDD_STBY (10025)", TestIdentity{Name: "IDD_STBY", Number: "10025"}.String())
	assert.Equal(t, "IDD_STBY", TestIdentity{Name: "IDD_STBY"}.String())
}
