// Package metrics defines and registers all custom Prometheus metrics for the
// members-area API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package
// init via promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "members"

// WebhookEventsTotal counts incoming payment-platform webhook events.
// Labels:
//   - event: the event name as sent by the platform (e.g. "PURCHASE_APPROVED"),
//     or "unknown" when the delivery carries none
//   - result: "processed" (purchase upserted), "ignored" (unknown event name),
//     "rejected" (bad signature, event label "unknown"), or "error"
var WebhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Total number of webhook events received, by event name and result.",
	},
	[]string{"event", "result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "wrong_password", "user_not_found", "forbidden", or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts first-password creations.
// Label:
//   - result: "success", "conflict", "no_purchase", or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of password-creation attempts, by result.",
	},
	[]string{"result"},
)

// OnboardingCompletionsTotal counts successful onboarding completions,
// including idempotent repeats.
var OnboardingCompletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_completions_total",
		Help:      "Total number of successful complete-onboarding calls.",
	},
)
