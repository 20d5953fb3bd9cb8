package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smunity_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// GuardDecisions counts access policy guard evaluations and their outcome
	// (allow|unauthenticated|forbidden).
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smunity_guard_decisions_total",
			Help: "Total number of access guard decisions",
		},
		[]string{"result"},
	)

	// ApplicationTransitions counts application workflow transitions by target
	// status and outcome (success|denied|invalid).
	ApplicationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smunity_application_transitions_total",
			Help: "Total number of application status transitions",
		},
		[]string{"to", "result"},
	)

	// ActiveSessions tracks active sessions (not expired/revoked).
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smunity_active_sessions",
			Help: "Number of active sessions",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smunity_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
