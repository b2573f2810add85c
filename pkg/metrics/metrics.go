// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts GetOrFetch calls answered from the cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Lookups served from the cache without an upstream fetch.",
	})

	// CacheMisses counts GetOrFetch calls that had to go upstream.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Lookups that missed or had expired and triggered a fetch.",
	})

	// UpstreamErrors counts failed upstream fetches per dataset.
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nfl",
		Subsystem: "upstream",
		Name:      "errors_total",
		Help:      "Upstream fetches that returned an error.",
	}, []string{"dataset"})

	// UpstreamDuration observes upstream fetch latency per dataset.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nfl",
		Subsystem: "upstream",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching a dataset from the upstream source.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"dataset"})
)
