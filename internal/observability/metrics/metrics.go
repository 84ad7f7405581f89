package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level prometheus instruments.
type Metrics struct {
	FilesTotal   *prometheus.CounterVec
	RowsTotal    *prometheus.CounterVec
	QueriesTotal *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers the instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		FilesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "billquest_ingest_files_total",
			Help: "Ingested source files by final status.",
		}, []string{"status"}),
		RowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "billquest_ingest_rows_total",
			Help: "Spreadsheet rows by outcome.",
		}, []string{"outcome"}),
		QueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "billquest_queries_total",
			Help: "Billing queries by query type.",
		}, []string{"query_type"}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "billquest_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "billquest_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
