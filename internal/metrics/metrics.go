package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Proxy-level request/hit/miss counters, labeled by route policy
	ProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_requests_total",
			Help: "Total number of requests handled by the cache proxy",
		},
		[]string{"policy"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_cache_hits_total",
			Help: "Total number of cache hits served by the proxy",
		},
		[]string{"policy"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_cache_misses_total",
			Help: "Total number of cache misses in the proxy",
		},
		[]string{"policy"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_store_errors_total",
			Help: "Total number of cache store errors",
		},
		[]string{"backend", "operation"},
	)

	GenerationsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_generations_pruned_total",
			Help: "Total number of cache generations evicted on activation",
		},
	)

	// Sync controller counters, labeled by logical stream
	StreamAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_stream_attempts_total",
			Help: "Total number of logical fetch attempts per stream and outcome",
		},
		[]string{"stream", "outcome"},
	)

	StreamDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_stream_dropped_total",
			Help: "Total number of triggers dropped by the in-flight guard",
		},
		[]string{"stream"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_fetch_duration_seconds",
			Help:    "Duration of logical fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stream"},
	)
)

// RecordProxyRequest records a request entering the proxy
func RecordProxyRequest(policy string) {
	ProxyRequests.WithLabelValues(policy).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(policy string) {
	CacheHits.WithLabelValues(policy).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(policy string) {
	CacheMisses.WithLabelValues(policy).Inc()
}

// RecordCacheError records a cache store error
func RecordCacheError(backend, operation string) {
	CacheErrors.WithLabelValues(backend, operation).Inc()
}

// RecordGenerationPruned records the eviction of a superseded generation
func RecordGenerationPruned() {
	GenerationsPruned.Inc()
}

// RecordStreamAttempt records the outcome of one logical fetch attempt
func RecordStreamAttempt(stream, outcome string) {
	StreamAttempts.WithLabelValues(stream, outcome).Inc()
}

// RecordStreamDropped records a trigger dropped by the in-flight guard
func RecordStreamDropped(stream string) {
	StreamDropped.WithLabelValues(stream).Inc()
}

// TimeFetch returns a timer function for measuring one logical fetch
func TimeFetch(stream string) func() {
	timer := prometheus.NewTimer(FetchDuration.WithLabelValues(stream))
	return func() {
		timer.ObserveDuration()
	}
}
