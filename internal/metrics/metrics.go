// Package metrics exposes Prometheus instrumentation for match runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gcbaptista/go-address-matcher/model"
)

var (
	// MatchResultsTotal counts terminal match results by match type.
	MatchResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "address_match_results_total",
		Help: "Match results produced, labeled by match type.",
	}, []string{"match_type"})

	// ExternalFailuresTotal counts failed external lookups by failure reason.
	ExternalFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "address_match_external_failures_total",
		Help: "External lookup failures, labeled by failure reason.",
	}, []string{"reason"})

	// RunDurationSeconds observes wall-clock duration of full match runs.
	RunDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "address_match_run_duration_seconds",
		Help:    "Duration of complete match runs.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	// RegistrySize reports the number of canonical addresses loaded.
	RegistrySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "address_match_registry_size",
		Help: "Canonical addresses in the active registry snapshot.",
	})
)

// ObserveResult records one terminal match result.
func ObserveResult(result *model.MatchResult) {
	MatchResultsTotal.WithLabelValues(string(result.MatchType)).Inc()
	if result.Status == model.MatchStatusFailed {
		ExternalFailuresTotal.WithLabelValues(result.Reason).Inc()
	}
}

// ObserveRun records the duration of a completed run.
func ObserveRun(seconds float64) {
	RunDurationSeconds.Observe(seconds)
}

// SetRegistrySize records the size of the active registry snapshot.
func SetRegistrySize(n int) {
	RegistrySize.Set(float64(n))
}
