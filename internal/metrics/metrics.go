package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mentoria",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	upstreamCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "upstream_calls_total",
		Help:      "Calls made to the auth API, by operation and outcome.",
	}, []string{"operation", "outcome"})

	initOnce sync.Once
)

// InitMetrics registers the collectors with the default registry. Safe to call repeatedly.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, upstreamCalls)
	})
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveUpstream counts one call to the auth API.
func ObserveUpstream(operation, outcome string) {
	upstreamCalls.WithLabelValues(operation, outcome).Inc()
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}
