// Package metrics provides Prometheus metrics for the ytpeaks service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for analyze requests.
const (
	OutcomeOK          = "ok"
	OutcomeInvalidURL  = "invalid_url"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeNoMarkers   = "no_markers"
)

// Outcome labels for upstream calls.
const (
	UpstreamOK    = "ok"
	UpstreamError = "error"
)

// Outcome labels for search requests.
const (
	SearchOK              = "ok"
	SearchEmptyQuery      = "empty_query"
	SearchChannelNotFound = "channel_not_found"
	SearchFailed          = "failed"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Analysis metrics
	analyzeOutcomes   *prometheus.CounterVec
	heatmapMisses     *prometheus.CounterVec
	momentsSelected   prometheus.Histogram
	markersPerPayload prometheus.Histogram

	// Search metrics
	searchRequests *prometheus.CounterVec
	searchResults  prometheus.Histogram

	// Upstream metrics
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
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
		namespace:        "ytpeaks",
		subsystem:        "api",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	m.analyzeOutcomes = m.counterVec("analyze_requests_total",
		"Analyze requests by outcome", "outcome")
	m.heatmapMisses = m.counterVec("heatmap_misses_total",
		"Watch pages without a usable heat-map, by reason", "reason")
	m.momentsSelected = m.histogram("moments_selected",
		"Number of moments returned per successful analysis",
		[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 20})
	m.markersPerPayload = m.histogram("heatmap_markers",
		"Number of raw markers found per heat-map",
		prometheus.ExponentialBuckets(1, 2, 10))

	m.searchRequests = m.counterVec("search_requests_total",
		"Search requests by search type and outcome", "type", "outcome")
	m.searchResults = m.histogram("search_results",
		"Number of videos returned per search",
		[]float64{0, 1, 5, 10, 25, 50})

	m.upstreamCalls = m.counterVec("upstream_calls_total",
		"Outbound calls by target and outcome", "target", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds",
		"Outbound call latency in milliseconds", "target")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and error type", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total",
		"HTTP errors by error type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordAnalyzeOutcome counts one analyze request.
func RecordAnalyzeOutcome(outcome string) {
	globalManager.analyzeOutcomes.WithLabelValues(outcome).Inc()
}

// RecordHeatmapMiss counts a watch page without a usable heat-map.
func RecordHeatmapMiss(reason string) {
	globalManager.heatmapMisses.WithLabelValues(reason).Inc()
}

// RecordMomentsSelected records how many moments an analysis returned.
func RecordMomentsSelected(n int) {
	globalManager.momentsSelected.Observe(float64(n))
}

// RecordHeatmapMarkers records how many raw markers a heat-map carried.
func RecordHeatmapMarkers(n int) {
	globalManager.markersPerPayload.Observe(float64(n))
}

// RecordSearch counts one search request.
func RecordSearch(searchType, outcome string) {
	globalManager.searchRequests.WithLabelValues(searchType, outcome).Inc()
}

// RecordSearchResults records how many videos a search returned.
func RecordSearchResults(n int) {
	globalManager.searchResults.Observe(float64(n))
}

// RecordUpstreamCall records an outbound call to target.
func RecordUpstreamCall(target, outcome string, latencyMs float64) {
	globalManager.upstreamCalls.WithLabelValues(target, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(target).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
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
