// Package monitoring exposes Prometheus metrics for compilation and query
// execution.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompileTotal counts compilations per view and outcome ("ok" or "error").
	CompileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraiseql_compile_total",
			Help: "Total number of query compilations by view and status.",
		},
		[]string{"view", "status"},
	)

	// ProjectionFallbackTotal counts selections that degraded to the
	// full-document passthrough.
	ProjectionFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraiseql_projection_fallback_total",
			Help: "Total number of projections that fell back to the full document column.",
		},
		[]string{"view"},
	)

	// PlanCacheHits and PlanCacheMisses track compiled-statement cache
	// effectiveness.
	PlanCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fraiseql_plan_cache_hits_total",
			Help: "Total number of plan cache hits.",
		},
	)
	PlanCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fraiseql_plan_cache_misses_total",
			Help: "Total number of plan cache misses.",
		},
	)

	// QueryDuration observes executed query latency per view.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fraiseql_query_duration_seconds",
			Help:    "Query execution latency by view.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	)

	// SlowQueryTotal counts queries exceeding the executor's slow-query
	// threshold.
	SlowQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraiseql_slow_query_total",
			Help: "Total number of queries slower than the configured threshold.",
		},
		[]string{"view"},
	)
)
