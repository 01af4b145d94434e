package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	endpointCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adminserv_endpoint_calls_total",
		Help: "Total number of calls per endpoint.",
	}, []string{"method", "endpoint"})

	errorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adminserv_errors_total",
		Help: "Total number of errors returned per endpoint.",
	}, []string{"method", "endpoint"})
)

func init() {
	prometheus.MustRegister(endpointCounter)
	prometheus.MustRegister(errorCounter)
}

// MetricsMiddleware counts every handled request by route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpointCounter.WithLabelValues(c.Request.Method, c.FullPath()).Inc()
		c.Next()
	}
}

func countError(c *gin.Context) {
	errorCounter.WithLabelValues(c.Request.Method, c.FullPath()).Inc()
}
