// Package metrics defines all custom Prometheus metrics for the companion
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics self-register via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "companion"

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatTurnsTotal counts accepted chat submissions.
// Label:
//   - kind: "chat" (model-backed), "onboarding", or "unlock"
var ChatTurnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_turns_total",
		Help:      "Total number of accepted chat turns, by kind.",
	},
	[]string{"kind"},
)

// LockedTurnsTotal counts submissions refused by the daily rate limit.
var LockedTurnsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locked_turns_total",
		Help:      "Total number of chat turns refused while rate-limited.",
	},
)

// OnboardingCompletedTotal counts users finishing the onboarding script.
var OnboardingCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_completed_total",
		Help:      "Total number of completed onboarding questionnaires.",
	},
)

// ── Completion backend metrics ────────────────────────────────────────────────

// CompletionRequestsTotal counts calls to the completion backend.
// Labels:
//   - model: the model identifier used
//   - outcome: "ok" or "error"
var CompletionRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_requests_total",
		Help:      "Total number of completion backend calls, by model and outcome.",
	},
	[]string{"model", "outcome"},
)

// CompletionDuration measures completion backend latency per model.
var CompletionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "completion_duration_seconds",
		Help:      "Duration of completion backend calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"model"},
)

// ── Streak metrics ────────────────────────────────────────────────────────────

// CheckinsTotal counts check-in attempts.
// Label:
//   - result: "increment", "reset", or "noop"
var CheckinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkins_total",
		Help:      "Total number of daily check-ins, by result.",
	},
	[]string{"result"},
)
