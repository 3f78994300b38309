package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	pageFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_fetch_total",
			Help: "Total number of page assembly requests",
		},
		[]string{"cache_hit", "selector"},
	)

	moderationBatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_batch_total",
			Help: "Total number of moderation batch applications",
		},
		[]string{"operation", "status"},
	)

	moderationBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moderation_batch_size",
			Help:    "Number of ids per moderation batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
)

// MetricsMiddleware collects Prometheus metrics for every HTTP request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordPageFetch records a page assembly request and whether the cache
// served it.
func RecordPageFetch(cacheHit bool, selector string) {
	hit := "false"
	if cacheHit {
		hit = "true"
	}
	pageFetchTotal.WithLabelValues(hit, selector).Inc()
}

// RecordBatch records the outcome and size of one moderation batch.
func RecordBatch(operation string, success bool, size int) {
	status := "success"
	if !success {
		status = "error"
	}
	moderationBatchTotal.WithLabelValues(operation, status).Inc()
	moderationBatchSize.Observe(float64(size))
}
