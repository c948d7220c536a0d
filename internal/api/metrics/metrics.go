// Package metrics defines all custom Prometheus metrics for the face
// attendance API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "faceattendance"

// ── Mark metrics ──────────────────────────────────────────────────────────────

// MarksTotal counts mark-attendance requests by outcome.
// Label:
//   - result: "check_in", "check_out", "not_recognized", "day_completed",
//     "cooldown", "invalid", "error"
var MarksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "marks_total",
		Help:      "Total number of mark-attendance requests, by outcome.",
	},
	[]string{"result"},
)

// MatchDistance observes the distance of accepted matches. A drifting
// distribution is the early warning that stored descriptors are going stale.
var MatchDistance = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_distance",
		Help:      "Euclidean distance of accepted face matches.",
		Buckets:   prometheus.LinearBuckets(0.05, 0.05, 10), // 0.05 … 0.50
	},
)

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationsTotal counts identity registrations by outcome.
// Label:
//   - result: "created", "duplicate_code", "duplicate_face", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of identity registration requests, by outcome.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts attendance events written to the audit trail.
// Label:
//   - type: "CHECK_IN" or "CHECK_OUT"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of attendance events recorded in the audit trail.",
	},
	[]string{"type"},
)

// AuditErrorsTotal counts audit events that failed to persist.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed")
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of attendance events that failed to persist.",
	},
	[]string{"reason"},
)

// AuditQueueDepth tracks the current number of events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
