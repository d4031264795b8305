// Package metrics provides Prometheus metrics for the matchd service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the matchd service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Matching metrics
	matchRequests      prometheus.Counter
	matchesComputed    prometheus.Counter
	matchLatency       prometheus.Histogram
	candidatesExcluded prometheus.Counter

	// Distance cache metrics
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	cacheExpired        prometheus.Counter
	cacheCleanupRemoved prometheus.Counter
	cachePutFailures    prometheus.Counter
	cacheSize           prometheus.Gauge

	// Resolver metrics
	resolverCalls     *prometheus.CounterVec
	resolverErrors    prometheus.Counter
	resolverFallbacks prometheus.Counter
	resolverLatency   prometheus.Histogram
	resolverCollapsed prometheus.Counter

	// Batch pipeline metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors prometheus.Counter
	batchJobsProcessed prometheus.Counter
	workerCount        prometheus.Gauge
	workerErrors       prometheus.Counter
	workerLatency      prometheus.Histogram

	// Notification metrics
	notificationsSent      prometheus.Counter
	notificationsDuplicate prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// Process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchd",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // registers the full metric set
	auto := promauto.With(m.registry)

	m.matchRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_requests_total",
		Help:      "Total number of match requests served",
	})

	m.matchesComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_computed_total",
		Help:      "Total number of match results produced",
	})

	m.matchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_latency_milliseconds",
		Help:      "Histogram of end-to-end match request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.candidatesExcluded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_excluded_total",
		Help:      "Total number of candidate events excluded by the distance filter",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "distcache",
		Name:      "hits_total",
		Help:      "Total number of distance cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "distcache",
		Name:      "misses_total",
		Help:      "Total number of distance cache misses",
	})

	m.cacheExpired = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "distcache",
		Name:      "expired_total",
		Help:      "Total number of entries lazily evicted on read after TTL expiry",
	})

	m.cacheCleanupRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "distcache",
		Name:      "cleanup_removed_total",
		Help:      "Total number of entries removed by cleanup sweeps",
	})

	m.cachePutFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "distcache",
		Name:      "put_failures_total",
		Help:      "Total number of cache writes that failed (non-fatal)",
	})

	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "distcache",
		Name:      "entries",
		Help:      "Current number of entries held by the distance cache store",
	})

	m.resolverCalls = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "resolver",
			Name:      "calls_total",
			Help:      "Total number of distance resolutions by provider",
		},
		[]string{"provider"},
	)

	m.resolverErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "resolver",
		Name:      "errors_total",
		Help:      "Total number of resolver calls that ended unavailable",
	})

	m.resolverFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "resolver",
		Name:      "fallbacks_total",
		Help:      "Total number of times a fallback distance was used for a candidate",
	})

	m.resolverLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "resolver",
		Name:      "latency_milliseconds",
		Help:      "Histogram of resolver call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.resolverCollapsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "resolver",
		Name:      "collapsed_total",
		Help:      "Total number of concurrent lookups collapsed into a shared in-flight call",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "queue_size",
		Help:      "Current size of the batch job queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "queue_capacity",
		Help:      "Maximum capacity of the batch job queue",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of rejected enqueues (closed or full queue)",
	})

	m.batchJobsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "jobs_processed_total",
		Help:      "Total number of batch match jobs completed",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "worker_count",
		Help:      "Current number of batch workers",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "worker_errors_total",
		Help:      "Total number of batch worker errors",
	})

	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "batch",
		Name:      "worker_latency_milliseconds",
		Help:      "Histogram of per-job processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.notificationsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "notify",
		Name:      "sent_total",
		Help:      "Total number of match notifications recorded",
	})

	m.notificationsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "notify",
		Name:      "duplicate_total",
		Help:      "Total number of notifications suppressed as duplicates",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Process memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Number of goroutines",
	})
}

// Matching metrics functions.

// RecordMatchRequest increments the match request counter.
func RecordMatchRequest() {
	globalManager.matchRequests.Inc()
}

// RecordMatchesComputed adds to the computed match results counter.
func RecordMatchesComputed(n int) {
	globalManager.matchesComputed.Add(float64(n))
}

// RecordMatchLatency records end-to-end match latency in milliseconds.
func RecordMatchLatency(latencyMs float64) {
	globalManager.matchLatency.Observe(latencyMs)
}

// RecordCandidateExcluded increments the distance filter exclusion counter.
func RecordCandidateExcluded() {
	globalManager.candidatesExcluded.Inc()
}

// Distance cache metrics functions.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheExpired increments the lazy eviction counter.
func RecordCacheExpired() {
	globalManager.cacheExpired.Inc()
}

// RecordCacheCleanupRemoved adds to the cleanup removal counter.
func RecordCacheCleanupRemoved(n int) {
	globalManager.cacheCleanupRemoved.Add(float64(n))
}

// RecordCachePutFailure increments the failed cache write counter.
func RecordCachePutFailure() {
	globalManager.cachePutFailures.Inc()
}

// UpdateCacheSize sets the current cache entry count.
func UpdateCacheSize(n int) {
	globalManager.cacheSize.Set(float64(n))
}

// Resolver metrics functions.

// RecordResolverCall increments the resolver call counter for a provider.
func RecordResolverCall(provider string) {
	globalManager.resolverCalls.WithLabelValues(provider).Inc()
}

// RecordResolverError increments the resolver error counter.
func RecordResolverError() {
	globalManager.resolverErrors.Inc()
}

// RecordResolverFallback increments the fallback distance counter.
func RecordResolverFallback() {
	globalManager.resolverFallbacks.Inc()
}

// RecordResolverLatency records resolver call latency in milliseconds.
func RecordResolverLatency(latencyMs float64) {
	globalManager.resolverLatency.Observe(latencyMs)
}

// RecordResolverCollapsed increments the shared in-flight call counter.
func RecordResolverCollapsed() {
	globalManager.resolverCollapsed.Inc()
}

// Batch pipeline metrics functions.

// UpdateQueueSize sets the current batch queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the batch queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError increments the rejected enqueue counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordBatchJobProcessed increments the completed batch job counter.
func RecordBatchJobProcessed() {
	globalManager.batchJobsProcessed.Inc()
}

// UpdateWorkerCount sets the current batch worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError increments the batch worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerLatency records per-job latency in milliseconds.
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// Notification metrics functions.

// RecordNotificationSent increments the notifications sent counter.
func RecordNotificationSent() {
	globalManager.notificationsSent.Inc()
}

// RecordNotificationDuplicate increments the suppressed duplicate counter.
func RecordNotificationDuplicate() {
	globalManager.notificationsDuplicate.Inc()
}

// HTTP metrics functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error tracking functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Process health functions.

// UpdateSystemMemoryUsage sets the process memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
