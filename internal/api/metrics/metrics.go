// Package metrics defines and registers all custom Prometheus metrics for
// the CorpGPT auth service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "corpgpt_auth"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "authenticated", "mfa_required", "pending_verification",
//     "pending_approval", or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// SignupsTotal counts signup attempts by outcome.
// Label:
//   - result: "authenticated", "pending_verification", "email_exists", "invalid"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by outcome.",
	},
	[]string{"result"},
)

// OTPVerificationsTotal counts email verification attempts.
// Label:
//   - result: "ok" or "failed"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of email verification attempts.",
	},
	[]string{"result"},
)

// MFAVerificationsTotal counts MFA challenge completions.
// Label:
//   - result: "authenticated" or "invalid"
var MFAVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mfa_verifications_total",
		Help:      "Total number of MFA challenge completions.",
	},
	[]string{"result"},
)

// SessionRefreshesTotal counts token refresh attempts.
// Label:
//   - result: "authenticated" or "invalid"
var SessionRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refreshes_total",
		Help:      "Total number of refresh token rotations.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the current number of audit entries waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
