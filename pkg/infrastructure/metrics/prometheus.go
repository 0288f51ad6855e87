// Package metrics provides Prometheus metrics for search runs
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes used as the "outcome" label
const (
	OutcomeRanked     = "ranked"
	OutcomeInfeasible = "infeasible"
	OutcomeTooLarge   = "too_large"
	OutcomeUndefined  = "evaluation_undefined"
	OutcomeError      = "error"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plafosus_searches_total",
			Help: "Total number of solution searches by outcome",
		},
		[]string{"method", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plafosus_search_duration_seconds",
			Help:    "Time taken for one solution search",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"method"},
	)

	PermutationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plafosus_permutations_created_total",
			Help: "Total number of permutations written to solution spaces",
		},
		[]string{"method"},
	)

	PossibilitiesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plafosus_possibilities_discarded_total",
			Help: "Manufacturing possibilities dropped because a step had no candidate",
		},
	)

	GeometryAnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plafosus_geometry_analyses_total",
			Help: "Total number of model file analyses by status",
		},
		[]string{"status"},
	)
)

// SearchMetrics records metrics for searches using one evaluation method
type SearchMetrics struct {
	method string
}

// NewSearchMetrics creates a recorder labelled with the evaluation method name
func NewSearchMetrics(method string) *SearchMetrics {
	return &SearchMetrics{method: method}
}

// RecordSearch records the outcome and duration of a search
func (m *SearchMetrics) RecordSearch(outcome string, duration time.Duration) {
	SearchesTotal.WithLabelValues(m.method, outcome).Inc()
	SearchDuration.WithLabelValues(m.method).Observe(duration.Seconds())
}

// RecordPermutations records the size of a persisted solution space
func (m *SearchMetrics) RecordPermutations(n int) {
	PermutationsCreated.WithLabelValues(m.method).Add(float64(n))
}

// RecordDiscarded records dropped manufacturing possibilities
func (m *SearchMetrics) RecordDiscarded(n int) {
	PossibilitiesDiscarded.Add(float64(n))
}

// RecordGeometryAnalysis records one model file analysis
func RecordGeometryAnalysis(status string) {
	GeometryAnalysesTotal.WithLabelValues(status).Inc()
}
