package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// TicksTotal counts executor tick iterations across all missions.
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aloft_mission_ticks_total",
			Help: "Total number of phase executor ticks.",
		},
	)

	// SnapshotsTotal counts telemetry snapshots produced.
	SnapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aloft_telemetry_snapshots_total",
			Help: "Total number of telemetry snapshots produced.",
		},
	)

	// MissionsTotal counts finished mission runs by outcome.
	MissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aloft_missions_total",
			Help: "Total number of mission runs by outcome code.",
		},
		[]string{"outcome"}, // success / aborted / preflight_failed / config_invalid
	)

	// SafetyAbortsTotal counts aborts by the safety check that fired.
	SafetyAbortsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aloft_safety_aborts_total",
			Help: "Total number of mission aborts by failing safety check.",
		},
		[]string{"check"},
	)

	// MissionDuration observes elapsed flight time of finished runs.
	MissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aloft_mission_duration_seconds",
			Help:    "Elapsed flight time of finished mission runs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~1h
		},
	)
)

// Registered on the default registry; the status server exposes it via
// promhttp on /metrics.
func init() {
	prometheus.MustRegister(TicksTotal)
	prometheus.MustRegister(SnapshotsTotal)
	prometheus.MustRegister(MissionsTotal)
	prometheus.MustRegister(SafetyAbortsTotal)
	prometheus.MustRegister(MissionDuration)
}
