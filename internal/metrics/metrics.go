// Package metrics exposes Prometheus instrumentation for the order workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Operations          *prometheus.CounterVec
	OperationLatency    *prometheus.HistogramVec
	ReservationFailures prometheus.Counter
}

// New registers on the default registerer; tests use NewWith and a private
// registry so repeated construction does not collide.
func New(service string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, service)
}

func NewWith(reg prometheus.Registerer, service string) *Metrics {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodorders",
		Subsystem: service,
		Name:      "operations_total",
		Help:      "Facade operations by outcome.",
	}, []string{"operation", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foodorders",
		Subsystem: service,
		Name:      "operation_duration_ms",
		Help:      "Facade operation latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"operation"})
	resFail := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "foodorders",
		Subsystem: service,
		Name:      "reservation_failures_total",
		Help:      "Stock reservations rejected for insufficient stock.",
	})

	reg.MustRegister(ops, latency, resFail)
	return &Metrics{Operations: ops, OperationLatency: latency, ReservationFailures: resFail}
}

// Observe records one facade operation.
func (m *Metrics) Observe(operation, outcome string, ms float64) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationLatency.WithLabelValues(operation).Observe(ms)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
