package users

import (
	"time"

	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/tiers"
	"defi-academy/internal/infra/stripe"
)

// Subscriber builds the snapshot the access rules read. The plan only counts
// while the Stripe subscription still entitles the user to it.
func (u User) Subscriber(now time.Time) tiers.Subscriber {
	sub := tiers.Subscriber{
		IsFoundingMember: u.IsFoundingMember,
		IsAdmin:          u.Role == RoleAdmin,
	}
	if u.hasEntitledSubscription(now) {
		sub.Plan = plans.TypeOf(u.Plan)
	}
	return sub
}

func (u User) Tier(now time.Time) tiers.Tier {
	return tiers.Classify(u.Subscriber(now))
}

func (u User) hasEntitledSubscription(now time.Time) bool {
	if u.SubscriptionId == nil || *u.SubscriptionId == "" {
		return false
	}
	return stripe.Entitles(u.StripeSubscriptionStatus, u.CurrentPeriodEnd, now)
}
