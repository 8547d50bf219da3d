// Package metrics provides Prometheus metrics for the propsight projection service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh cycle metrics
	refreshTotal    *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	lastRefreshUnix prometheus.Gauge

	// Projection and opportunity metrics
	projectionsComputed prometheus.Counter
	opportunitiesFound  prometheus.Counter
	avgConfidence       prometheus.Gauge
	matchCount          prometheus.Gauge

	// Line movement metrics
	movementsRecorded    *prometheus.CounterVec
	significantMovements prometheus.Counter
	trackedKeys          prometheus.Gauge
	trackedPlayers       prometheus.Gauge

	// Provider health metrics
	providerFallbacks *prometheus.CounterVec

	// Manual import metrics
	manualRows *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "propsight",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.refreshTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_total",
		Help:      "Total number of refresh cycles by outcome",
	}, []string{"status"})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_seconds",
		Help:      "Histogram of full refresh cycle duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.lastRefreshUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the last completed refresh cycle",
	})

	m.projectionsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projections_computed_total",
		Help:      "Total number of player projections computed",
	})

	m.opportunitiesFound = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "value_opportunities_total",
		Help:      "Total number of value opportunities flagged",
	})

	m.avgConfidence = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "avg_confidence",
		Help:      "Average projection confidence in the current snapshot",
	})

	m.matchCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "match_count",
		Help:      "Number of matches in the current snapshot",
	})

	m.movementsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "line_movements_total",
		Help:      "Total number of line observations recorded by direction",
	}, []string{"direction"})

	m.significantMovements = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "significant_movements_total",
		Help:      "Total number of line movements classified as significant",
	})

	m.trackedKeys = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_keys",
		Help:      "Number of distinct player/stat/platform series being tracked",
	})

	m.trackedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_players",
		Help:      "Number of distinct players being tracked",
	})

	m.providerFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_fallbacks_total",
		Help:      "Total number of neutral-default substitutions for missing provider signals",
	}, []string{"signal"})

	m.manualRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "manual_line_rows_total",
		Help:      "Total number of manually imported line rows by result",
	}, []string{"result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint"})
}

// GetRegistry returns the registry metrics are registered on.
func GetRegistry() *prometheus.Registry { return customRegistry }

// Package-level recorders against the global manager.

// RecordRefresh records the outcome and duration of one refresh cycle.
func RecordRefresh(status string, d time.Duration) {
	globalManager.refreshTotal.WithLabelValues(status).Inc()
	globalManager.refreshDuration.Observe(d.Seconds())
	if status == "ok" {
		globalManager.lastRefreshUnix.SetToCurrentTime()
	}
}

// RecordProjection counts one computed projection.
func RecordProjection() { globalManager.projectionsComputed.Inc() }

// RecordOpportunity counts one flagged value opportunity.
func RecordOpportunity() { globalManager.opportunitiesFound.Inc() }

// RecordMovement counts one recorded line observation by direction.
func RecordMovement(direction string) {
	globalManager.movementsRecorded.WithLabelValues(direction).Inc()
}

// RecordSignificantMovement counts one significant line movement.
func RecordSignificantMovement() { globalManager.significantMovements.Inc() }

// RecordProviderFallback counts one neutral-default substitution for a signal.
func RecordProviderFallback(signal string) {
	globalManager.providerFallbacks.WithLabelValues(signal).Inc()
}

// RecordManualRow counts one manual import row by result (accepted/rejected).
func RecordManualRow(result string) {
	globalManager.manualRows.WithLabelValues(result).Inc()
}

// UpdateTrackerGauges sets the distinct player and key series gauges.
func UpdateTrackerGauges(players, keys int) {
	globalManager.trackedPlayers.Set(float64(players))
	globalManager.trackedKeys.Set(float64(keys))
}

// UpdateSnapshotGauges sets the match count and average confidence gauges.
func UpdateSnapshotGauges(matches int, avgConfidence float64) {
	globalManager.matchCount.Set(float64(matches))
	globalManager.avgConfidence.Set(avgConfidence)
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records the duration of one HTTP request.
func RecordHTTPRequestDuration(endpoint string, d time.Duration) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}
