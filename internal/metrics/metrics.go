// Package metrics exposes Prometheus instruments for pipeline runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transformsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsonhelper_transforms_total",
		Help: "Pipeline runs by operation, transport and outcome",
	}, []string{"operation", "transport", "outcome"})

	transformDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jsonhelper_transform_duration_seconds",
		Help:    "Pipeline run latencies in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"operation"})

	inputBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jsonhelper_transform_input_bytes",
		Help:    "Pipeline input sizes in bytes",
		Buckets: prometheus.ExponentialBuckets(64, 8, 8),
	}, []string{"operation"})

	socketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jsonhelper_socket_clients",
		Help: "Currently connected socket clients",
	})
)

// ObserveTransform records one pipeline run. outcome is "ok" or an error kind.
func ObserveTransform(operation, transport, outcome string, inputLen int, took time.Duration) {
	transformsTotal.WithLabelValues(operation, transport, outcome).Inc()
	transformDuration.WithLabelValues(operation).Observe(took.Seconds())
	inputBytes.WithLabelValues(operation).Observe(float64(inputLen))
}

// SocketClientConnected tracks a socket client for the lifetime of its connection.
// Call the returned func when the client goes away.
func SocketClientConnected() func() {
	socketClients.Inc()
	return socketClients.Dec
}
