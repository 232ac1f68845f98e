// Package metrics exposes Prometheus counters for a benchmark run.
// Metrics are registered on the default registry and served by the
// viewer's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks per-run dispatch activity by model.
type Metrics struct {
	dispatches *prometheus.CounterVec
	failures   *prometheus.CounterVec
	skips      prometheus.Counter
	cost       *prometheus.CounterVec
	latency    prometheus.Histogram
}

// New registers the benchmark metrics with the given registerer. Pass
// nil to use the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "htrbench",
			Name:      "dispatches_total",
			Help:      "Completed transcription calls by model.",
		}, []string{"model"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "htrbench",
			Name:      "failures_total",
			Help:      "Failed transcription calls by model and error type.",
		}, []string{"model", "error_type"}),
		skips: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "htrbench",
			Name:      "skips_total",
			Help:      "Pairs skipped because a persisted result already exists.",
		}),
		cost: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "htrbench",
			Name:      "cost_dollars_total",
			Help:      "Accumulated metered cost in dollars by model.",
		}, []string{"model"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "htrbench",
			Name:      "call_latency_seconds",
			Help:      "Provider call latency.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
	}
}

// Dispatch records one successful call.
func (m *Metrics) Dispatch(model string, cost, latencySeconds float64) {
	m.dispatches.WithLabelValues(model).Inc()
	m.cost.WithLabelValues(model).Add(cost)
	m.latency.Observe(latencySeconds)
}

// Failure records one failed call.
func (m *Metrics) Failure(model, errorType string) {
	m.failures.WithLabelValues(model, errorType).Inc()
}

// Skip records one pair resumed from a persisted result.
func (m *Metrics) Skip() {
	m.skips.Inc()
}
