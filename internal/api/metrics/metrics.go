// Package metrics defines and registers all custom Prometheus metrics for
// the conference portal. It is the single source of truth for metric names,
// labels, and help strings; importing the package registers everything with
// the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Gatekeeper metrics ────────────────────────────────────────────────────────

// AuthzDecisionsTotal counts gatekeeper outcomes per request.
// Label:
//   - decision: "allow", "redirect", or "strip_and_redirect"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of gatekeeper authorization decisions, by outcome.",
	},
	[]string{"decision"},
)

// CredentialFailuresTotal counts credentials rejected during verification.
// Label:
//   - reason: "verification" (bad signature/expired), "revoked", "missing_claim"
var CredentialFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_failures_total",
		Help:      "Total number of rejected session credentials, by reason.",
	},
	[]string{"reason"},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts against the identity endpoint.
// Label:
//   - result: "success", "invalid_credentials", "disabled", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RevocationsTotal counts credentials tombstoned before natural expiry.
var RevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revocations_total",
		Help:      "Total number of credentials revoked before expiry.",
	},
)

// ProfileFetchDuration measures profile resolution latency, credential
// verification included.
// Label:
//   - result: "ok" or "error"
var ProfileFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "profile_fetch_duration_seconds",
		Help:      "Duration of credential-to-profile resolution.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting to be persisted.
var AuditQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of authentication audit events pending persistence.",
	},
)

// AuditDroppedTotal counts audit events discarded because the queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped due to queue saturation.",
	},
)
