// Package metrics defines the custom Prometheus metrics of the identity
// service. It is the single source of truth for metric names, labels, and
// help strings; registration happens implicitly through promauto against
// the default registry, which the /metrics endpoint exposes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens rejected by protected endpoints.
// Label:
//   - reason: "invalid" (bad signature/expired), "malformed" (missing claims),
//     or "unknown_subject"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)

// UsersCreatedTotal counts successful registrations.
// Label:
//   - role: "user" or "admin"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts accounts removed through the admin API.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of accounts deleted by administrators.",
	},
)
