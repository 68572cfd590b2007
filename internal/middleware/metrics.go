package middleware

import (
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordermart_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ordermart_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	entityOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordermart_entity_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation", "status"},
	)
)

// PrometheusMiddleware 收集 Prometheus 指标
func PrometheusMiddleware() iris.Handler {
	return func(ctx iris.Context) {
		start := time.Now()

		ctx.Next()

		path := ctx.GetCurrentRoute().Path()
		if path == "" {
			path = ctx.Path()
		}
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ctx.GetStatusCode())

		httpRequestsTotal.WithLabelValues(ctx.Method(), path, status).Inc()
		httpRequestDuration.WithLabelValues(ctx.Method(), path, status).Observe(duration)
	}
}

// RecordEntityOperation 记录实体操作指标
func RecordEntityOperation(entity, operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	entityOperations.WithLabelValues(entity, operation, status).Inc()
}
