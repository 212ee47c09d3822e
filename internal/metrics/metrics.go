package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Teller operations
	PaymentsPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teller_payments_posted_total",
			Help: "Total payments posted successfully",
		},
		[]string{"type"},
	)
	PaymentsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teller_payments_rejected_total",
			Help: "Total payment submissions rejected before posting",
		},
		[]string{"reason"}, // format|checksum|reconciliation|limit|inventory|state
	)
	RollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teller_rollbacks_total",
			Help: "Total transactions rolled back",
		},
	)
	RetryAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teller_retry_attempts_total",
			Help: "Total retry attempts executed",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(PaymentsPosted)
	prometheus.MustRegister(PaymentsRejected)
	prometheus.MustRegister(RollbacksTotal)
	prometheus.MustRegister(RetryAttempts)
}
