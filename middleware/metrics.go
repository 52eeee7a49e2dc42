package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_orders_created_total",
			Help: "Orders created, by checkout type",
		},
		[]string{"checkout"},
	)

	receiptsUploadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_receipts_uploaded_total",
			Help: "Receipt uploads, by outcome",
		},
		[]string{"outcome"},
	)

	orderStatusChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_order_status_changes_total",
			Help: "Admin order status changes, by target status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(ordersCreatedTotal)
	prometheus.MustRegister(receiptsUploadedTotal)
	prometheus.MustRegister(orderStatusChangesTotal)
}

// MetricsMiddleware records request counts and latency per route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordOrderCreated(guest bool) {
	checkout := "registered"
	if guest {
		checkout = "guest"
	}
	ordersCreatedTotal.WithLabelValues(checkout).Inc()
}

func RecordReceiptUpload(outcome string) {
	receiptsUploadedTotal.WithLabelValues(outcome).Inc()
}

func RecordStatusChange(status string) {
	orderStatusChangesTotal.WithLabelValues(status).Inc()
}
