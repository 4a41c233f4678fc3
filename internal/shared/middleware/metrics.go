package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "talenthub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "talenthub_http_request_duration_seconds",
		Help:    "Time spent handling HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	bookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "talenthub_bookings_created_total",
		Help: "Total number of bookings created",
	})

	bookingsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "talenthub_bookings_cancelled_total",
		Help: "Total number of bookings cancelled",
	})
)

// Metrics records request counts and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// FullPath gives the route template (/api/v1/bookings/:id),
		// not the raw URL, keeping cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		httpRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// CountBookingCreated increments the booking creation counter.
func CountBookingCreated() {
	bookingsCreatedTotal.Inc()
}

// CountBookingCancelled increments the booking cancellation counter.
func CountBookingCancelled() {
	bookingsCancelledTotal.Inc()
}
