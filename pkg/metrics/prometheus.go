// Package metrics provides Prometheus metrics for the assessment
// scoring engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the scoring engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring outcomes
	assessmentsScored prometheus.Counter
	invalidResponses  prometheus.Counter
	scoringDuration   prometheus.Histogram

	// Catalog health
	catalogLoadFailures prometheus.Counter
	catalogQuestions    prometheus.Gauge

	// Batch runs
	batchRuns              prometheus.Counter
	batchWorkers           prometheus.Gauge
	recommendationsEmitted prometheus.Counter
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
		namespace:        "opeq",
		subsystem:        "assessment",
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

	m.assessmentsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_scored_total",
		Help:      "Total number of scoring runs completed successfully",
	})

	m.invalidResponses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invalid_responses_total",
		Help:      "Total number of scoring runs rejected for out-of-set answers",
	})

	m.scoringDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_duration_milliseconds",
		Help:      "Histogram of full-pipeline scoring duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.catalogLoadFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_load_failures_total",
		Help:      "Total number of catalog loads rejected by validation",
	})

	m.catalogQuestions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_questions",
		Help:      "Number of questions in the loaded catalog",
	})

	m.batchRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_runs_total",
		Help:      "Total number of batch scoring invocations",
	})

	m.batchWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_workers",
		Help:      "Configured number of concurrent batch workers",
	})

	m.recommendationsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_emitted_total",
		Help:      "Total number of remediation recommendations emitted",
	})
}

// RecordAssessmentScored increments the successful runs counter.
func RecordAssessmentScored() {
	globalManager.assessmentsScored.Inc()
}

// RecordInvalidResponse increments the rejected runs counter.
func RecordInvalidResponse() {
	globalManager.invalidResponses.Inc()
}

// RecordScoringDuration records full-pipeline duration in milliseconds.
func RecordScoringDuration(durationMs float64) {
	globalManager.scoringDuration.Observe(durationMs)
}

// RecordCatalogLoadFailure increments the catalog validation failure counter.
func RecordCatalogLoadFailure() {
	globalManager.catalogLoadFailures.Inc()
}

// UpdateCatalogQuestions sets the loaded catalog size gauge.
func UpdateCatalogQuestions(count int) {
	globalManager.catalogQuestions.Set(float64(count))
}

// RecordBatchRun increments the batch invocation counter.
func RecordBatchRun() {
	globalManager.batchRuns.Inc()
}

// UpdateBatchWorkers sets the batch worker count gauge.
func UpdateBatchWorkers(count int) {
	globalManager.batchWorkers.Set(float64(count))
}

// RecordRecommendations adds to the emitted recommendations counter.
func RecordRecommendations(count int) {
	globalManager.recommendationsEmitted.Add(float64(count))
}

// Handler returns an HTTP handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
