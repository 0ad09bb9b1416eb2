package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	PollLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kiosk_poll_latency_seconds",
		Help:    "Round-trip latency of gateway status polls.",
		Buckets: prometheus.DefBuckets,
	})

	TransportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_transport_failures_total",
		Help: "Gateway calls that failed at the transport level.",
	}, []string{"op"})

	Sessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_sessions_total",
		Help: "Payment sessions by terminal outcome.",
	}, []string{"outcome"})

	DeviceCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_device_commands_total",
		Help: "Device commands observed by the reconciler.",
	}, []string{"command"})
)

// Handler exposes the prometheus registry as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
