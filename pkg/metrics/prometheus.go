// Package metrics provides Prometheus metrics for the evalhub service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values shared by the counters below.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultNotFound = "not_found"
)

// defaultLatencyBuckets are in milliseconds; directory scans of a few hundred
// benchmarks land in the low tens.
var defaultLatencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the evalhub service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Extraction
	scans         *prometheus.CounterVec
	scanDuration  prometheus.Histogram
	recordsTotal  prometheus.Gauge
	skippedTotal  prometheus.Counter
	parseFailures prometheus.Counter

	// Detail and snapshot
	detailFetches  *prometheus.CounterVec
	snapshotWrites *prometheus.CounterVec
	snapshotLoads  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Process
	goroutines prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "evalhub",
		subsystem:        "catalog",
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      make(map[string]string),
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

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scans = auto.NewCounterVec(
		m.counterOpts("scans_total", "Total number of root directory scans by result"),
		[]string{"result"},
	)
	m.scanDuration = auto.NewHistogram(
		m.histogramOpts("scan_duration_milliseconds", "Duration of a full root scan in milliseconds"),
	)
	m.recordsTotal = auto.NewGauge(
		m.gaugeOpts("records", "Number of benchmark records produced by the latest scan or snapshot load"),
	)
	m.skippedTotal = auto.NewCounter(
		m.counterOpts("skipped_entries_total", "Directories skipped because they are reserved or have no manifest"),
	)
	m.parseFailures = auto.NewCounter(
		m.counterOpts("parse_failures_total", "Manifests that could not be read or parsed"),
	)

	m.detailFetches = auto.NewCounterVec(
		m.counterOpts("detail_fetches_total", "Detail lookups by result"),
		[]string{"result"},
	)
	m.snapshotWrites = auto.NewCounterVec(
		m.counterOpts("snapshot_writes_total", "Snapshot files written by result"),
		[]string{"result"},
	)
	m.snapshotLoads = auto.NewCounterVec(
		m.counterOpts("snapshot_loads_total", "Snapshot files loaded by result"),
		[]string{"result"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.goroutines = auto.NewGauge(
		m.gaugeOpts("goroutines", "Number of goroutines"),
	)
}

// Extraction metrics.

// RecordScan records one completed or failed scan and its duration.
func RecordScan(result string, duration time.Duration) {
	globalManager.scans.WithLabelValues(result).Inc()
	globalManager.scanDuration.Observe(float64(duration.Microseconds()) / 1000)
}

// UpdateRecordsTotal sets the number of records currently served.
func UpdateRecordsTotal(count int) {
	globalManager.recordsTotal.Set(float64(count))
}

// RecordSkipped adds n skipped directories.
func RecordSkipped(n int) {
	if n > 0 {
		globalManager.skippedTotal.Add(float64(n))
	}
}

// RecordParseFailures adds n unparseable manifests.
func RecordParseFailures(n int) {
	if n > 0 {
		globalManager.parseFailures.Add(float64(n))
	}
}

// Detail and snapshot metrics.

// RecordDetailFetch counts a detail lookup; result is one of the Result constants.
func RecordDetailFetch(result string) {
	globalManager.detailFetches.WithLabelValues(result).Inc()
}

// RecordSnapshotWrite counts a snapshot write attempt.
func RecordSnapshotWrite(result string) {
	globalManager.snapshotWrites.WithLabelValues(result).Inc()
}

// RecordSnapshotLoad counts a snapshot load attempt.
func RecordSnapshotLoad(result string) {
	globalManager.snapshotLoads.WithLabelValues(result).Inc()
}

// HTTP metrics.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateGoroutineCount sets the number of goroutines.
func UpdateGoroutineCount(count int) {
	globalManager.goroutines.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler serves the custom registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
