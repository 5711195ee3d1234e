// Package metrics exposes Prometheus counters for the dispatch engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "washline_orders_created_total",
			Help: "Total number of orders placed",
		},
	)

	CheckpointsRecordedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "washline_checkpoints_recorded_total",
			Help: "Total number of checkpoint scans accepted, by checkpoint type",
		},
		[]string{"checkpoint_type"},
	)

	CheckpointsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "washline_checkpoints_rejected_total",
			Help: "Total number of checkpoint scans rejected",
		},
	)

	AcceptanceAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "washline_acceptance_attempts_total",
			Help: "Total number of courier acceptance attempts, by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsDispatchedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "washline_notifications_dispatched_total",
			Help: "Total number of leg offers sent to couriers",
		},
	)

	RequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "washline_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(OrdersCreatedTotal)
	prometheus.MustRegister(CheckpointsRecordedTotal)
	prometheus.MustRegister(CheckpointsRejectedTotal)
	prometheus.MustRegister(AcceptanceAttemptsTotal)
	prometheus.MustRegister(NotificationsDispatchedTotal)
	prometheus.MustRegister(RequestDuration)
}
