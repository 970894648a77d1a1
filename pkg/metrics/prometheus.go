// Package metrics provides Prometheus metrics for the plume telemetry pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Generator metrics
	readingsGenerated prometheus.Counter
	anomaliesInjected *prometheus.CounterVec
	duplicatesQueued  prometheus.Counter

	// Cleaner metrics
	recordsSeen       prometheus.Counter
	recordsValid      prometheus.Counter
	recordsDropped    *prometheus.CounterVec
	recordsCorrected  prometheus.Counter
	parseErrors       prometheus.Counter
	duplicatesRemoved prometheus.Counter

	// Sink metrics
	rowsWritten       prometheus.Counter
	artifactWriteSecs prometheus.Histogram
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
		namespace:        "plume",
		subsystem:        "pipeline",
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

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.readingsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "readings_generated_total",
		Help:      "Total number of primary synthetic readings generated",
	})

	m.anomaliesInjected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "anomalies_injected_total",
		Help:      "Total number of anomalies injected into readings, by kind",
	}, []string{"kind"})

	m.duplicatesQueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicates_queued_total",
		Help:      "Total number of duplicate readings queued behind the primary sequence",
	})

	m.recordsSeen = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_seen_total",
		Help:      "Total number of parsed records seen by the cleaner",
	})

	m.recordsValid = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_valid_total",
		Help:      "Total number of records accepted by the cleaner",
	})

	m.recordsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_dropped_total",
		Help:      "Total number of records dropped by the cleaner, by reason",
	}, []string{"reason"})

	m.recordsCorrected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_corrected_total",
		Help:      "Total number of records repaired by a cleaning rule",
	})

	m.parseErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_errors_total",
		Help:      "Total number of lines that failed to parse",
	})

	m.duplicatesRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicates_removed_total",
		Help:      "Total number of records removed by key deduplication",
	})

	m.rowsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_written_total",
		Help:      "Total number of rows written to the clean artifact",
	})

	m.artifactWriteSecs = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifact_write_seconds",
		Help:      "Histogram of clean artifact write duration in seconds",
		Buckets:   m.histogramBuckets,
	})
}

// Package-level helpers on the global manager.

// RecordReadingGenerated increments the generated-readings counter.
func RecordReadingGenerated() {
	globalManager.readingsGenerated.Inc()
}

// RecordAnomalyInjected counts one injected anomaly of the given kind.
func RecordAnomalyInjected(kind string) {
	globalManager.anomaliesInjected.WithLabelValues(kind).Inc()
}

// RecordDuplicateQueued counts one queued trailing duplicate.
func RecordDuplicateQueued() {
	globalManager.duplicatesQueued.Inc()
}

// RecordRecordSeen counts one parsed record entering the cleaner.
func RecordRecordSeen() {
	globalManager.recordsSeen.Inc()
}

// RecordRecordValid counts one accepted record.
func RecordRecordValid() {
	globalManager.recordsValid.Inc()
}

// RecordRecordDropped counts one dropped record with its reason.
func RecordRecordDropped(reason string) {
	globalManager.recordsDropped.WithLabelValues(reason).Inc()
}

// RecordRecordCorrected counts one repaired record.
func RecordRecordCorrected() {
	globalManager.recordsCorrected.Inc()
}

// RecordParseError counts one unparseable line.
func RecordParseError() {
	globalManager.parseErrors.Inc()
}

// RecordDuplicateRemoved counts one record removed by deduplication.
func RecordDuplicateRemoved() {
	globalManager.duplicatesRemoved.Inc()
}

// RecordRowsWritten counts rows written to the artifact.
func RecordRowsWritten(n int) {
	globalManager.rowsWritten.Add(float64(n))
}

// RecordArtifactWriteDuration observes one artifact write in seconds.
func RecordArtifactWriteDuration(seconds float64) {
	globalManager.artifactWriteSecs.Observe(seconds)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler returns an HTTP handler exposing the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
