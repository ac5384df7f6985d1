// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_turns_processed_total",
			Help: "Total number of turns processed by the pipeline",
		},
		[]string{"channel"},
	)

	TurnErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_turn_errors_total",
			Help: "Total number of turns that failed",
		},
		[]string{"channel", "error_code"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_turn_duration_seconds",
			Help: "Duration of turn processing in seconds",
		},
		[]string{"channel"},
	)

	TelemetryEventsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_telemetry_events_tracked_total",
			Help: "Total number of telemetry events handed to a sink",
		},
		[]string{"event", "sink"},
	)

	TelemetryTrackFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_telemetry_track_failures_total",
			Help: "Total number of telemetry events a sink rejected",
		},
		[]string{"sink"},
	)

	ModerationScreens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_moderation_screens_total",
			Help: "Total number of moderation screen outcomes",
		},
		[]string{"outcome"},
	)

	TranscriptInserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_transcript_inserts_total",
			Help: "Total number of transcript insert attempts",
		},
		[]string{"status"},
	)
)
