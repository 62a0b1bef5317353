package metrics

import (
	"sync"
	"time"

	"github.com/go-authgate/apigate/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics interface used across the application.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Gate Metrics
	AuthAttemptsTotal *prometheus.CounterVec
	AuthRejectedTotal *prometheus.CounterVec
	AuthDuration      *prometheus.HistogramVec

	// Directory Metrics
	DirectoryLookupsTotal   *prometheus.CounterVec
	DirectoryLookupDuration *prometheus.HistogramVec
	UserCacheTotal          *prometheus.CounterVec
	DirectoryUsers          *prometheus.GaugeVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		AuthAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_auth_attempts_total",
				Help: "Total number of authentication decisions made by the gate",
			},
			[]string{"scheme", "outcome"}, // scheme: bearer, basic; outcome: allowed, rejected, error
		),
		AuthRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_auth_rejected_total",
				Help: "Total number of rejected credentials by reason",
			},
			[]string{"scheme", "reason"},
		),
		AuthDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gate_auth_duration_seconds",
				Help:    "Time taken to reach an authentication decision",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scheme"},
		),

		DirectoryLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_lookups_total",
				Help: "Total number of user directory lookups",
			},
			[]string{"directory", "result"}, // result: found, not_found, error
		),
		DirectoryLookupDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "directory_lookup_duration_seconds",
				Help:    "Time taken for user directory lookups",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"directory"},
		),
		UserCacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_user_cache_total",
				Help: "Total number of user cache lookups",
			},
			[]string{"result"}, // hit, miss, error
		),
		DirectoryUsers: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "directory_users",
				Help: "Current number of users in the local store",
			},
			[]string{"auth_source"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
					10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"}, // find_user, compare_credential, count_users
		),
	}
}

// RecordAuthAttempt records one gate decision
func (m *Metrics) RecordAuthAttempt(scheme, outcome string, duration time.Duration) {
	m.AuthAttemptsTotal.WithLabelValues(scheme, outcome).Inc()
	m.AuthDuration.WithLabelValues(scheme).Observe(duration.Seconds())
}

// RecordAuthRejected records the reason of a rejection
func (m *Metrics) RecordAuthRejected(scheme, reason string) {
	m.AuthRejectedTotal.WithLabelValues(scheme, reason).Inc()
}

// RecordDirectoryLookup records a user directory lookup
func (m *Metrics) RecordDirectoryLookup(directory, result string, duration time.Duration) {
	m.DirectoryLookupsTotal.WithLabelValues(directory, result).Inc()
	m.DirectoryLookupDuration.WithLabelValues(directory).Observe(duration.Seconds())
}

// RecordUserCache records a user cache lookup
func (m *Metrics) RecordUserCache(result string) {
	m.UserCacheTotal.WithLabelValues(result).Inc()
}

// SetUsersCount sets the current user count (for periodic updates)
func (m *Metrics) SetUsersCount(authSource string, count int) {
	m.DirectoryUsers.WithLabelValues(authSource).Set(float64(count))
}

// RecordDatabaseQueryError records a database query error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
