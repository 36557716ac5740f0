package measurement

import (
	"errors"
	"testing"

	"distsim/domain/core"
	"distsim/domain/similarity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameLookups(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddTest(similarity.TestIdentity{Name: "VDD_LEAK", Number: "10010"}, []float64{1, 2, 3}, Limits{LSL: Float(0), USL: Float(5)}))
	require.NoError(t, f.AddTest(similarity.TestIdentity{Name: "OSC_FREQ", Number: "40001"}, []float64{9.9, 10.1}, Limits{}))

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "VDD_LEAK", f.Tests()[0].Name)

	id, ok := f.LookupTest("OSC_FREQ")
	require.True(t, ok)
	assert.Equal(t, "40001", id.Number)

	col, ok := f.Column("10010")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, col)

	lsl, usl := f.Limits("10010")
	require.NotNil(t, lsl)
	require.NotNil(t, usl)
	assert.Equal(t, 0.0, *lsl)
	assert.Equal(t, 5.0, *usl)

	lsl, usl = f.Limits("40001")
	assert.Nil(t, lsl)
	assert.Nil(t, usl)

	_, ok = f.Column("99999")
	assert.False(t, ok)
}

func TestFrameRejectsDuplicates(t *testing.T) {
	f := NewFrame()
	require.NoError(t, f.AddTest(similarity.TestIdentity{Name: "A", Number: "1"}, nil, Limits{}))

	err := f.AddTest(similarity.TestIdentity{Name: "A", Number: "2"}, nil, Limits{})
	assert.True(t, errors.Is(err, core.ErrMalformedTable))

	err = f.AddTest(similarity.TestIdentity{Name: "B", Number: "1"}, nil, Limits{})
	assert.True(t, errors.Is(err, core.ErrMalformedTable))

	err = f.AddTest(similarity.TestIdentity{Name: "", Number: "3"}, nil, Limits{})
	assert.True(t, errors.Is(err, core.ErrMalformedTable))
}
