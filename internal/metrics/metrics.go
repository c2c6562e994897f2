package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_gate_decisions_total",
			Help: "Course access decisions by phase and outcome",
		},
		[]string{"phase", "locked"},
	)

	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_roadmap_votes_cast_total",
			Help: "Roadmap votes cast or replaced, by voter tier",
		},
		[]string{"tier", "type"},
	)

	VotesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "academy_roadmap_votes_removed_total",
			Help: "Roadmap votes withdrawn",
		},
	)

	VotesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_roadmap_votes_rejected_total",
			Help: "Vote attempts rejected, by reason",
		},
		[]string{"reason"},
	)

	CommissionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_commissions_recorded_total",
			Help: "Referral commissions created, by referrer tier at purchase",
		},
		[]string{"referrer_tier"},
	)

	CommissionCents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_commission_cents_total",
			Help: "Sum of commission amounts in cents, by status transition",
		},
		[]string{"status"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_stripe_webhook_events_total",
			Help: "Stripe webhook events, by type and result",
		},
		[]string{"event_type", "result"},
	)
)
