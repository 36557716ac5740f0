package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.ObservePrediction(PathML)
	m.ObservePrediction(PathML)
	m.ObservePrediction(PathFallback)
	m.ObserveFallback("model_unavailable")
	m.DataAbsent.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues(PathML)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues(PathFallback)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Predictions.WithLabelValues(PathNone)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelFallbacks.WithLabelValues("model_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DataAbsent))
}

func TestMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveTest(time.Now())
	m.RunsTotal.Inc()

	count, err := testutil.GatherAndCount(reg, "distsim_test_duration_seconds", "distsim_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Panics(t, func() { New(reg) }, "collectors register once per registry")
}
