// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_submissions_total",
			Help: "Total number of application submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "jobboard_submission_duration_seconds",
			Help: "Duration of the application submission workflow in seconds",
		},
	)

	SubmissionCompensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_submission_compensations_total",
			Help: "Compensating blob deletes executed after a partial submission failure",
		},
		[]string{"state"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_notifications_created_total",
			Help: "Total number of notification rows created by type",
		},
		[]string{"type"},
	)

	NotificationsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_notifications_suppressed_total",
			Help: "Status-change notifications suppressed as duplicates",
		},
	)

	RealtimeEventsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_realtime_events_delivered_total",
			Help: "Realtime notification events fanned out to local subscribers",
		},
	)
)
