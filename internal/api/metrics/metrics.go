// Package metrics defines all custom Prometheus metrics for the commerce
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commerce"

// ── Session metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success", "conflict" or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRotationsTotal counts refresh-token rotations.
// Label:
//   - result: "success" or "rejected"
var TokenRotationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rotations_total",
		Help:      "Total number of refresh token rotations, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout attempts.
// Label:
//   - result: "success" or "rejected"
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout attempts, by result.",
	},
	[]string{"result"},
)

// ── Order-stats metrics ───────────────────────────────────────────────────────

// OrderEventsProcessedTotal counts order events that completed processing.
// Label:
//   - result: "recomputed" or "error"
var OrderEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_processed_total",
		Help:      "Total number of order events handled by the stats recompute, by result.",
	},
	[]string{"result"},
)

// StatsRecomputeDuration measures how long one stats recompute takes from
// dequeue to persistence.
var StatsRecomputeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_recompute_duration_seconds",
		Help:      "Duration of a single customer stats recompute.",
		Buckets:   prometheus.DefBuckets,
	},
)
