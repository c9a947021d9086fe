// Package metrics defines and registers the custom Prometheus metrics of the
// notes API. HTTP request metrics come from the echoprometheus middleware; this
// package only holds domain counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts sign-up and sign-in outcomes.
// Labels:
//   - operation: "sign_up" or "sign_in"
//   - result: "success", "conflict", "invalid_credentials", "locked", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts by operation and result.",
	},
	[]string{"operation", "result"},
)

// LogoutsTotal counts sessions cleared through /auth/log-out.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of log-out requests served.",
	},
)

// ── Note metrics ──────────────────────────────────────────────────────────────

// NotesCreatedTotal counts notes persisted.
var NotesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_created_total",
		Help:      "Total number of notes created.",
	},
)

// NotesListedSize observes how many notes a single list call returned.
var NotesListedSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notes_listed_size",
		Help:      "Number of notes returned per list request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	},
)
