package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safarinova",
			Name:      "rpc_requests_total",
			Help:      "RPC requests by operation and result code.",
		},
		[]string{"operation", "code"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "safarinova",
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(rpcRequests, bookingsCreated)
	})
}

// IncRPC increments the request counter for an operation/code pair.
func IncRPC(operation, code string) {
	rpcRequests.WithLabelValues(operation, code).Inc()
}

// IncBookingCreated increments the created-bookings counter.
func IncBookingCreated() {
	bookingsCreated.Inc()
}
