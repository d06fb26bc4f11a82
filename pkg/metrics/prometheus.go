// Package metrics provides Prometheus metrics for the seacast ingestion
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the ingestion pipeline.
type Manager struct {
	namespace string
	subsystem string
	enabled   bool
	registry  *prometheus.Registry

	ingestsTotal     *prometheus.CounterVec
	ingestErrors     *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	samplesIngested  prometheus.Counter
	derivedVariables prometheus.Counter
	badFlagSamples   prometheus.Counter
	subsetsTotal     prometheus.Counter
	subsetErrors     prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "seacast",
		subsystem: "ingest",
		enabled:   true,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.ingestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_total",
		Help:      "Number of files successfully ingested, by format key.",
	}, []string{"format"})

	m.ingestErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Number of failed ingestion attempts, by format key.",
	}, []string{"format"})

	m.ingestDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_seconds",
		Help:      "Wall time of one ingestion call.",
		Buckets:   prometheus.DefBuckets,
	})

	m.samplesIngested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_total",
		Help:      "Number of samples across all ingested datasets.",
	})

	m.derivedVariables = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derived_variables_total",
		Help:      "Number of derived variables computed.",
	})

	m.badFlagSamples = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bad_flag_samples_total",
		Help:      "Number of bad-flag sentinel values replaced with the missing marker.",
	})

	m.subsetsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "subset",
		Name:      "requests_total",
		Help:      "Number of subset queries evaluated.",
	})

	m.subsetErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "subset",
		Name:      "errors_total",
		Help:      "Number of subset queries that failed validation.",
	})
}

// RecordIngest records one successful ingestion.
func RecordIngest(format string, samples int, duration time.Duration) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.ingestsTotal.WithLabelValues(format).Inc()
	globalManager.samplesIngested.Add(float64(samples))
	globalManager.ingestDuration.Observe(duration.Seconds())
}

// RecordIngestError records one failed ingestion.
func RecordIngestError(format string) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	if format == "" {
		format = "unknown"
	}
	globalManager.ingestErrors.WithLabelValues(format).Inc()
}

// RecordDerivedVariables records derived variables added to a dataset.
func RecordDerivedVariables(count int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.derivedVariables.Add(float64(count))
}

// RecordBadFlagSamples records bad-flag substitutions.
func RecordBadFlagSamples(count int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.badFlagSamples.Add(float64(count))
}

// RecordSubset records one subset query, failed or not.
func RecordSubset(failed bool) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.subsetsTotal.Inc()
	if failed {
		globalManager.subsetErrors.Inc()
	}
}

// Handler returns an HTTP handler exposing the global registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
