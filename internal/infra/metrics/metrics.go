// Package metrics exposes the process-wide Prometheus instruments. All
// instruments are registered once on the default registry at package init,
// so callers just record observations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// OutcomeOK marks a generation that produced real provider output.
	OutcomeOK = "ok"
	// OutcomeError marks a generation that failed and was surfaced.
	OutcomeError = "error"
	// OutcomeDegraded marks a generation that completed with a placeholder.
	OutcomeDegraded = "degraded"
)

var (
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reformat",
		Subsystem: "content",
		Name:      "generations_total",
		Help:      "Content generations by kind and outcome.",
	}, []string{"kind", "outcome"})

	providerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reformat",
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Latency of upstream provider calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"provider"})

	selectionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reformat",
		Subsystem: "selector",
		Name:      "fallbacks_total",
		Help:      "Model selections that collapsed into the deterministic fallback.",
	})

	videoJobsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "reformat",
		Subsystem: "video",
		Name:      "jobs_in_flight",
		Help:      "Detached avatar-video jobs still being watched.",
	})
)

// ObserveGeneration records the outcome of one per-kind generation.
func ObserveGeneration(kind, outcome string) {
	generationsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveProviderLatency records the duration of one upstream call.
func ObserveProviderLatency(provider string, d time.Duration) {
	providerLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// SelectionFallback records one collapse into the fallback recommendation.
func SelectionFallback() {
	selectionFallbacks.Inc()
}

// VideoJobStarted marks a detached job watcher as running.
func VideoJobStarted() {
	videoJobsInFlight.Inc()
}

// VideoJobFinished marks a detached job watcher as done.
func VideoJobFinished() {
	videoJobsInFlight.Dec()
}
