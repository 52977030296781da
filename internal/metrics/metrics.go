// Package metrics exposes the probe's Prometheus instrumentation.
// Serving is optional: a run without -metrics-addr never touches HTTP.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcastprobe/internal/logger"
)

var (
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcastprobe_messages_sent_total",
		Help: "Total number of datagrams sent by the producer.",
	}, []string{"format"})

	BytesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcastprobe_bytes_sent_total",
		Help: "Total datagram bytes sent by the producer.",
	}, []string{"format"})

	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcastprobe_messages_received_total",
		Help: "Total number of datagrams received and decoded.",
	}, []string{"format"})

	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcastprobe_decode_errors_total",
		Help: "Total number of datagrams that failed to decode.",
	}, []string{"format"})

	// E2ELatency captures producer send_time to listener decode. The
	// probe targets LAN paths, so buckets are biased sub-millisecond.
	E2ELatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "mcastprobe_e2e_latency_seconds",
		Help: "End-to-end latency from producer send to listener decode.",
		Buckets: []float64{
			.000005, .00001, .000025, .00005, .0001, .00025, .0005,
			.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1,
		},
	}, []string{"format"})
)

// Serve blocks serving /metrics on addr; run it in its own goroutine.
func Serve(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server error: %v", err)
	}
}
