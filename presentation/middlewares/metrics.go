package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/infrastructure/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	requestsCounterName = "http_requests_total"
	requestDurationName = "http_request_duration_seconds"
	unmatchedRouteLabel = "unmatched"
)

// HTTPMetrics counts requests and observes their latency per route.
func HTTPMetrics(manager metrics.Manager) gin.HandlerFunc {
	manager.NewCounter(requestsCounterName, "Total number of HTTP requests")
	manager.NewHistogram(requestDurationName, "HTTP request duration in seconds",
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0)

	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = unmatchedRouteLabel
		}

		attrs := []attribute.KeyValue{
			attribute.String("method", ctx.Request.Method),
			attribute.String("path", path),
			attribute.String("status", strconv.Itoa(ctx.Writer.Status())),
		}

		manager.IncCounter(requestsCounterName, attrs...)
		manager.ObserveHistogram(requestDurationName, time.Since(start).Seconds(), attrs...)
	}
}
