// Package metrics provides Prometheus metrics for the aSAH risk calculator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the calculator service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Core business metrics
	assessmentsTotal       prometheus.Counter
	severeAssessmentsTotal prometheus.Counter
	validationFailures     prometheus.Counter
	batchRowsTotal         prometheus.Counter
	csvExportsTotal        prometheus.Counter
	scoringDuration        prometheus.Histogram

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "asahcalc",
		subsystem:        "risk",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.assessmentsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessments_total",
		Help:      "Total number of risk assessments computed.",
	})
	m.severeAssessmentsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "severe_assessments_total",
		Help:      "Assessments for WFNS 4-5 patients (models 3 and 4 applicable).",
	})
	m.validationFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Inputs rejected at the validation boundary.",
	})
	m.batchRowsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_rows_total",
		Help:      "Patient rows processed through batch assessment.",
	})
	m.csvExportsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "csv_exports_total",
		Help:      "CSV export documents produced.",
	})
	m.scoringDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_duration_ms",
		Help:      "Scoring engine evaluation duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines.",
	})
}

// RecordAssessment counts one computed assessment; severe marks the
// WFNS 4-5 cohort.
func (m *Manager) RecordAssessment(severe bool) {
	if !m.enabled {
		return
	}
	m.assessmentsTotal.Inc()
	if severe {
		m.severeAssessmentsTotal.Inc()
	}
}

// RecordValidationFailure counts one rejected input.
func (m *Manager) RecordValidationFailure() {
	if !m.enabled {
		return
	}
	m.validationFailures.Inc()
}

// RecordBatchRows counts rows processed in a batch request.
func (m *Manager) RecordBatchRows(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.batchRowsTotal.Add(float64(n))
}

// RecordCSVExport counts one produced CSV document.
func (m *Manager) RecordCSVExport() {
	if !m.enabled {
		return
	}
	m.csvExportsTotal.Inc()
}

// RecordScoringDuration observes one engine evaluation in milliseconds.
func (m *Manager) RecordScoringDuration(ms float64) {
	if !m.enabled {
		return
	}
	m.scoringDuration.Observe(ms)
}

// RecordHTTPRequest counts one HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, status string) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if !m.enabled {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// UpdateSystemMemoryUsage sets the current heap allocation gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if !m.enabled {
		return
	}
	m.systemGoroutineCount.Set(float64(count))
}

// Package-level helpers delegating to the global manager.

func RecordAssessment(severe bool)         { globalManager.RecordAssessment(severe) }
func RecordValidationFailure()             { globalManager.RecordValidationFailure() }
func RecordBatchRows(n int)                { globalManager.RecordBatchRows(n) }
func RecordCSVExport()                     { globalManager.RecordCSVExport() }
func RecordScoringDuration(ms float64)     { globalManager.RecordScoringDuration(ms) }
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.RecordHTTPRequest(endpoint, method, status)
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, status, ms)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
