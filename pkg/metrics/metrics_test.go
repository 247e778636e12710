package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/items/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}

func TestAuthAndBackupCounters(t *testing.T) {
	m := New("test")
	m.Auth("signin", false)
	m.Auth("signin", true)
	m.Backup("export", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("signin", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackupOps.WithLabelValues("export", "success")))

	var none *Metrics
	assert.NotPanics(t, func() { none.Auth("signin", true) })
}
