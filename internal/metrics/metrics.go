package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orgadmin_query_cache_hits_total",
		Help: "Total number of query cache hits by query name",
	}, []string{"query"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orgadmin_query_cache_misses_total",
		Help: "Total number of query cache misses by query name",
	}, []string{"query"})

	CacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orgadmin_query_cache_invalidations_total",
		Help: "Total number of explicit query cache invalidations by query name",
	}, []string{"query"})

	// Mutations counts form submissions by operation and outcome (success, failure, compensated).
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orgadmin_mutations_total",
		Help: "Total number of mutating operations by operation and outcome",
	}, []string{"operation", "outcome"})

	OrphanedIdentitiesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orgadmin_orphaned_identities_total",
		Help: "Identities left without membership because compensation failed",
	})
)
