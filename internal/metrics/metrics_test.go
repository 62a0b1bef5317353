package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	m := Init(true)
	require.NotNil(t, m)

	// Type assert to concrete Metrics to access fields
	metrics, ok := m.(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.AuthAttemptsTotal)
	assert.NotNil(t, metrics.DirectoryLookupsTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	assert.Same(t, metrics, Init(true), "Init(true) must return the same instance")
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	require.NotNil(t, m)

	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")

	// Every method must be safe to call
	m.RecordAuthAttempt("bearer", "allowed", time.Millisecond)
	m.RecordAuthRejected("bearer", "invalid_token")
	m.RecordDirectoryLookup("local", "found", time.Millisecond)
	m.RecordUserCache("hit")
	m.SetUsersCount("local", 3)
	m.RecordDatabaseQueryError("find_user")
}

func TestRecordAuth(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.AuthRejectedTotal.WithLabelValues("basic", "bad_password"))
	m.RecordAuthAttempt("basic", "rejected", 3*time.Millisecond)
	m.RecordAuthRejected("basic", "bad_password")

	assert.InDelta(t, before+1,
		testutil.ToFloat64(m.AuthRejectedTotal.WithLabelValues("basic", "bad_password")), 0)
}

func TestRecordDirectory(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.DirectoryLookupsTotal.WithLabelValues("local", "not_found"))
	m.RecordDirectoryLookup("local", "not_found", 2*time.Millisecond)
	assert.InDelta(t, before+1,
		testutil.ToFloat64(m.DirectoryLookupsTotal.WithLabelValues("local", "not_found")), 0)

	hits := testutil.ToFloat64(m.UserCacheTotal.WithLabelValues("hit"))
	m.RecordUserCache("hit")
	assert.InDelta(t, hits+1, testutil.ToFloat64(m.UserCacheTotal.WithLabelValues("hit")), 0)

	m.SetUsersCount("local", 7)
	assert.InDelta(t, 7, testutil.ToFloat64(m.DirectoryUsers.WithLabelValues("local")), 0)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := Init(true).(*Metrics)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/api/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/me", "204"))
	metricsBefore := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200"))

	for _, path := range []string{"/api/me", "/metrics"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
	}

	assert.InDelta(t, before+1,
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/me", "204")), 0)
	assert.InDelta(t, metricsBefore,
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200")), 0,
		"the metrics endpoint must not record itself")
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/api/me", normalizePath("/api/me"))
}
