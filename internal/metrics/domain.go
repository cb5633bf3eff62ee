package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and admin Prometheus metrics.
var (
	SearchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "worldsearch",
			Name:      "search_results_total",
			Help:      "Search results returned, by match tier",
		},
		[]string{"match_type"},
	)

	SearchQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "worldsearch",
			Name:      "search_query_duration_seconds",
			Help:      "Backend time spent on fuzzy search queries",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SearchEmptyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "worldsearch",
			Name:      "search_empty_total",
			Help:      "Searches that returned no results",
		},
	)

	AdminOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "worldsearch",
			Name:      "admin_operations_total",
			Help:      "Admin bulk operations",
		},
		[]string{"op", "status"}, // status: ok / error / conflict
	)

	AdminOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "worldsearch",
			Name:      "admin_operation_duration_seconds",
			Help:      "Admin bulk operation wall-clock duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"op"},
	)

	VacuumFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "worldsearch",
			Name:      "vacuum_failures_total",
			Help:      "VACUUM passes that failed after a successful clear",
		},
	)
)

var registerDomainOnce sync.Once

// RegisterDomainMetrics registers search and admin metrics on the default registry. Safe to call repeatedly.
func RegisterDomainMetrics() {
	registerDomainOnce.Do(func() {
		prometheus.MustRegister(
			SearchResultsTotal,
			SearchQueryDuration,
			SearchEmptyTotal,
			AdminOperationsTotal,
			AdminOperationDuration,
			VacuumFailuresTotal,
		)
	})
}
