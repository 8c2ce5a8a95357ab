// Package metrics provides Prometheus metrics for the jobscope service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the jobscope service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ingestion
	listingsLoaded    prometheus.Gauge
	listingsDropped   prometheus.Gauge
	storeBuildLatency prometheus.Histogram

	// Sentiment gateway
	sentimentLatency  prometheus.Histogram
	sentimentErrors   prometheus.Counter
	sentimentUnscored prometheus.Counter

	// Query pipeline
	searchRequests *prometheus.CounterVec
	searchLatency  prometheus.Histogram
	searchMatches  prometheus.Histogram

	// Analytics pipeline
	analyticsRequests        *prometheus.CounterVec
	analyticsLatency         *prometheus.HistogramVec
	analyticsAggregateErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "jobscope",
		subsystem:        "listings",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.listingsLoaded = auto.NewGauge(m.gaugeOpts("loaded", "Number of listings held by the store"))
	m.listingsDropped = auto.NewGauge(m.gaugeOpts("dropped", "Number of raw records dropped because their posting date could not be parsed"))
	m.storeBuildLatency = auto.NewHistogram(m.histogramOpts("store_build_milliseconds",
		"Time spent building the listing store in milliseconds", m.histogramBuckets))

	m.sentimentLatency = auto.NewHistogram(m.histogramOpts("sentiment_latency_milliseconds",
		"Latency of a single sentiment scoring call in milliseconds", m.histogramBuckets))
	m.sentimentErrors = auto.NewCounter(m.counterOpts("sentiment_errors_total",
		"Sentiment scoring calls that failed and were treated as unscored"))
	m.sentimentUnscored = auto.NewCounter(m.counterOpts("sentiment_unscored_total",
		"Descriptions that produced no sentiment score"))

	m.searchRequests = auto.NewCounterVec(m.counterOpts("search_requests_total",
		"Search requests by sort key"), []string{"sort_by"})
	m.searchLatency = auto.NewHistogram(m.histogramOpts("search_latency_milliseconds",
		"Search pipeline latency in milliseconds", m.histogramBuckets))
	m.searchMatches = auto.NewHistogram(m.histogramOpts("search_matches",
		"Number of listings surviving search filters",
		prometheus.ExponentialBuckets(1, 4, 10)))

	m.analyticsRequests = auto.NewCounterVec(m.counterOpts("analytics_requests_total",
		"Analytics requests by view"), []string{"view"})
	m.analyticsLatency = auto.NewHistogramVec(m.histogramOpts("analytics_latency_milliseconds",
		"Analytics pipeline latency in milliseconds", m.histogramBuckets), []string{"view"})
	m.analyticsAggregateErrors = auto.NewCounterVec(m.counterOpts("analytics_aggregate_errors_total",
		"Aggregates that failed and were returned empty"), []string{"aggregate"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Errors by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// UpdateListingsLoaded sets the number of listings in the store.
func UpdateListingsLoaded(count int) {
	globalManager.listingsLoaded.Set(float64(count))
}

// UpdateListingsDropped sets the number of raw records dropped at ingestion.
func UpdateListingsDropped(count int) {
	globalManager.listingsDropped.Set(float64(count))
}

// RecordStoreBuildLatency records how long building the store took.
func RecordStoreBuildLatency(latencyMs float64) {
	globalManager.storeBuildLatency.Observe(latencyMs)
}

// RecordSentimentLatency records a single scoring call.
func RecordSentimentLatency(latencyMs float64) {
	globalManager.sentimentLatency.Observe(latencyMs)
}

// RecordSentimentError increments the sentiment failure counter.
func RecordSentimentError() {
	globalManager.sentimentErrors.Inc()
}

// RecordSentimentUnscored increments the unscored description counter.
func RecordSentimentUnscored() {
	globalManager.sentimentUnscored.Inc()
}

// RecordSearch records a completed search.
func RecordSearch(sortBy string, matches int, latencyMs float64) {
	if sortBy == "" {
		sortBy = "default"
	}
	globalManager.searchRequests.WithLabelValues(sortBy).Inc()
	globalManager.searchMatches.Observe(float64(matches))
	globalManager.searchLatency.Observe(latencyMs)
}

// RecordAnalytics records a completed analytics request for a view ("overview" or "scoped").
func RecordAnalytics(view string, latencyMs float64) {
	globalManager.analyticsRequests.WithLabelValues(view).Inc()
	globalManager.analyticsLatency.WithLabelValues(view).Observe(latencyMs)
}

// RecordAnalyticsAggregateError counts an aggregate that could not be computed.
func RecordAnalyticsAggregateError(aggregate string) {
	globalManager.analyticsAggregateErrors.WithLabelValues(aggregate).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
