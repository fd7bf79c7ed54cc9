package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for outbound source calls.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookfinder_source_requests_total",
			Help: "Total search calls issued to each book source, by outcome.",
		},
		[]string{"source", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookfinder_source_request_duration_seconds",
			Help:    "Latency of search calls per book source.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookfinder_source_errors_total",
			Help: "Total failed search calls per book source, by error type.",
		},
		[]string{"source", "error_type"},
	)

	registry.MustRegister(requests, duration, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: duration,
		ErrorsTotal:     errorsTotal,
	}
}

// ObserveSuccess records one successful source call.
func (m *Metrics) ObserveSuccess(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(source, "success").Inc()
	m.RequestDuration.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveFailure records one failed source call with its error type label.
func (m *Metrics) ObserveFailure(source, errorType string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(source, "error").Inc()
	m.RequestDuration.WithLabelValues(source).Observe(d.Seconds())
	m.ErrorsTotal.WithLabelValues(source, errorType).Inc()
}
