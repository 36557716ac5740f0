package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestAdvisor(p Policy) *Advisor {
	a := NewAdvisor(p, nil)
	a.now = func() time.Time { return fixedNow }
	return a
}

func records(n int, v Verdict, age time.Duration) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{TestName: "T", Verdict: v, Confidence: 0.8, CreatedAt: fixedNow.Add(-age)}
	}
	return out
}

func TestParseVerdict(t *testing.T) {
	v, err := ParseVerdict(" Incorrect ")
	require.NoError(t, err)
	assert.Equal(t, Incorrect, v)

	_, err = ParseVerdict("maybe")
	assert.Error(t, err)
}

func TestNeedsRetraining_Volume(t *testing.T) {
	a := newTestAdvisor(DefaultPolicy())

	d := a.NeedsRetraining(records(99, Correct, time.Hour))
	assert.False(t, d.Retrain)
	assert.Equal(t, 99, d.Total)

	d = a.NeedsRetraining(records(100, Correct, time.Hour))
	assert.True(t, d.Retrain)
}

func TestNeedsRetraining_ErrorRate(t *testing.T) {
	a := newTestAdvisor(DefaultPolicy())

	recs := append(records(8, Correct, time.Hour), records(2, Incorrect, time.Hour)...)
	d := a.NeedsRetraining(recs)
	assert.InDelta(t, 0.2, d.ErrorRate, 1e-12)
	assert.True(t, d.Retrain)

	recs = append(records(9, Correct, time.Hour), records(1, Incorrect, time.Hour)...)
	d = a.NeedsRetraining(recs)
	assert.False(t, d.Retrain)
}

func TestNeedsRetraining_IgnoresOldFeedback(t *testing.T) {
	a := newTestAdvisor(DefaultPolicy())

	recs := append(records(200, Incorrect, 8*24*time.Hour), records(5, Correct, 24*time.Hour)...)
	d := a.NeedsRetraining(recs)
	assert.Equal(t, 5, d.Total)
	assert.Equal(t, 0.0, d.ErrorRate)
	assert.False(t, d.Retrain)

	d = a.NeedsRetraining(nil)
	assert.False(t, d.Retrain)
	assert.Equal(t, 0.0, d.ErrorRate)
}

func TestSummarize(t *testing.T) {
	recs := []Record{
		{Verdict: Correct, Confidence: 0.9},
		{Verdict: Correct, Confidence: 0.7},
		{Verdict: Uncertain, Confidence: 0.5},
	}
	s := Summarize(recs)
	assert.Equal(t, 3, s.Total)
	require.Len(t, s.ByVerdict, 2)
	assert.Equal(t, Correct, s.ByVerdict[0].Verdict)
	assert.Equal(t, 2, s.ByVerdict[0].Count)
	assert.InDelta(t, 0.8, s.ByVerdict[0].AvgConfidence, 1e-12)
	assert.Equal(t, Uncertain, s.ByVerdict[1].Verdict)
}
