package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction paths a result row can come from
const (
	PathML       = "ml"
	PathFallback = "fallback"
	PathNone     = "none"
)

// Metrics are the analysis collectors. The zero value is not usable; build
// with New.
type Metrics struct {
	Predictions     *prometheus.CounterVec
	DataAbsent      prometheus.Counter
	ModelFallbacks  *prometheus.CounterVec
	TestDuration    prometheus.Histogram
	RunsTotal       prometheus.Counter
	ModelLoadErrors prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests and one-shot CLI runs use.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Predictions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "distsim_predictions_total",
			Help: "Result rows by the path that labeled them",
		}, []string{"path"}),
		DataAbsent: f.NewCounter(prometheus.CounterOpts{
			Name: "distsim_data_absent_total",
			Help: "Tests emitted without statistics because a side had no valid data",
		}),
		ModelFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "distsim_model_fallbacks_total",
			Help: "Rule-based fallbacks by cause",
		}, []string{"reason"}),
		TestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "distsim_test_duration_seconds",
			Help:    "Time to sample, extract and classify one test",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		}),
		RunsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "distsim_runs_total",
			Help: "Completed analysis runs",
		}),
		ModelLoadErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "distsim_model_load_errors_total",
			Help: "Model versions that could not be loaded",
		}),
	}
}

// ObservePrediction counts one row on path
func (m *Metrics) ObservePrediction(path string) {
	m.Predictions.WithLabelValues(path).Inc()
}

// ObserveFallback counts a rule-based fallback and its cause
func (m *Metrics) ObserveFallback(reason string) {
	m.ModelFallbacks.WithLabelValues(reason).Inc()
}

// ObserveTest records the wall time of one test since start
func (m *Metrics) ObserveTest(start time.Time) {
	m.TestDuration.Observe(time.Since(start).Seconds())
}
