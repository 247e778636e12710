// Package metrics exposes Prometheus collectors for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry so tests and multiple engines do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	// RequestDuration tracks handler latency per route
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlight        prometheus.Gauge
	// AuthEvents counts signin, signup, refresh and reset outcomes
	AuthEvents *prometheus.CounterVec
	// BackupOps counts database backup operations by outcome
	BackupOps *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time spent processing HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication events by action and result",
		}, []string{"action", "result"}),
		BackupOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backup_operations_total",
			Help:      "Database backup operations by kind and result",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(
		m.RequestDuration, m.RequestsTotal, m.InFlight, m.AuthEvents, m.BackupOps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records latency and status for every request. Unmatched routes share one label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Auth records one authentication outcome. A nil receiver is a no-op.
func (m *Metrics) Auth(action string, ok bool) {
	if m == nil {
		return
	}
	m.AuthEvents.WithLabelValues(action, result(ok)).Inc()
}

// Backup records one backup operation outcome. A nil receiver is a no-op.
func (m *Metrics) Backup(op string, ok bool) {
	if m == nil {
		return
	}
	m.BackupOps.WithLabelValues(op, result(ok)).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
