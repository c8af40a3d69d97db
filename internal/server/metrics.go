package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dshills/riskscore/internal/scoring"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the scoring service.
// It uses its own registry so tests can create several servers.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	scoresTotal     *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscore_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskscore_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		scoresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskscore_scores_total",
				Help: "Total number of computed scores by risk level",
			},
			[]string{"level"},
		),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "riskscore_active_sessions",
			Help: "Number of sessions held in memory",
		}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.scoresTotal, m.activeSessions)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) observeScore(level scoring.Level) {
	m.scoresTotal.WithLabelValues(level.String()).Inc()
}

func (m *Metrics) setSessions(n int) {
	m.activeSessions.Set(float64(n))
}
