// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StorageOperations counts record operations by kind, backend (warehouse|flatfile) and outcome.
	StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillbridge_storage_operations_total",
		Help: "Record operations by record kind, backend and outcome",
	}, []string{"kind", "backend", "outcome"})

	GenerationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillbridge_generation_attempts_total",
		Help: "Generation attempts by backend and outcome",
	}, []string{"backend", "outcome"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillbridge_generation_duration_seconds",
		Help:    "Generation latency per backend in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	}, []string{"backend"})
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

func ObserveStorage(kind, backend, outcome string) {
	StorageOperations.WithLabelValues(kind, backend, outcome).Inc()
}

func ObserveGeneration(backend, outcome string, started time.Time) {
	GenerationAttempts.WithLabelValues(backend, outcome).Inc()
	GenerationDuration.WithLabelValues(backend).Observe(time.Since(started).Seconds())
}
