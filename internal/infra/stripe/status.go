package stripe

import (
	"strings"
	"time"
)

// Stripe-ish normalization used ONLY for billing.subscription.status
func NormalizeStripeStatus(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "none"
	}
	switch strings.TrimSpace(*s) {
	case "active":
		return "active"
	case "trialing":
		return "trialing"
	case "past_due", "unpaid":
		return "past_due"
	case "canceled", "incomplete_expired":
		return "canceled"
	default:
		return strings.TrimSpace(*s)
	}
}

// Entitles reports whether a subscription in this status still grants its
// plan. Canceled subscriptions keep it until the paid-through period ends.
func Entitles(status *string, currentPeriodEnd *time.Time, now time.Time) bool {
	switch NormalizeStripeStatus(status) {
	case "active", "trialing", "past_due":
		return true
	case "canceled":
		return currentPeriodEnd != nil && now.Before(*currentPeriodEnd)
	default:
		return false
	}
}
