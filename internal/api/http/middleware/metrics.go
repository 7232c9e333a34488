package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_login_attempts_total",
			Help: "Admin login attempts by outcome",
		},
		[]string{"outcome"},
	)
	projectMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_project_mutations_total",
			Help: "Project mutations by operation and result",
		},
		[]string{"operation", "result"},
	)
)

// PrometheusMiddleware records request duration. The path label is the
// matched route template so ids do not blow up cardinality.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// RecordLoginAttempt counts a login by outcome (success, invalid, locked, limited, error).
func RecordLoginAttempt(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordProjectMutation counts a create/replace/patch/delete by result.
func RecordProjectMutation(operation, result string) {
	projectMutations.WithLabelValues(operation, result).Inc()
}
