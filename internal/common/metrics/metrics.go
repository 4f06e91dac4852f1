// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notifications_sent_total",
			Help: "Total number of notifications delivered and recorded",
		},
		[]string{"kind"},
	)

	NotificationsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notifications_suppressed_total",
			Help: "Total number of due reminders skipped because the recipient already acted",
		},
		[]string{"kind"},
	)

	NotificationsDuplicate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notifications_duplicate_total",
			Help: "Total number of ledger conflicts treated as already-sent",
		},
		[]string{"kind"},
	)

	DeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_delivery_failures_total",
			Help: "Total number of failed delivery attempts",
		},
		[]string{"kind"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notifier_sweep_duration_seconds",
			Help: "Duration of a due-notification sweep in seconds",
		},
	)

	SweepsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_sweeps_skipped_total",
			Help: "Total number of sweeps skipped because a previous sweep still held the lease",
		},
	)
)
