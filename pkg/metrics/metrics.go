package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmtrack_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// AlertsEmitted counts inventory alerts created, labelled by notification type.
	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmtrack_alerts_emitted_total",
			Help: "Total number of inventory alert notifications created",
		},
		[]string{"type"},
	)

	// InventorySweepDuration measures how long a full per-user inventory check takes.
	InventorySweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "farmtrack_inventory_sweep_seconds",
			Help:    "Duration of inventory alert sweeps across all users",
			Buckets: prometheus.DefBuckets,
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farmtrack_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
