package plans

import "defi-academy/internal/domain/tiers"

// TypeOf returns the plan type of p.
// Priority:
// 1. Explicit Type stored in DB (from Stripe price metadata)
// 2. Stripe recurring interval
func TypeOf(p *Plan) tiers.PlanType {
	if p == nil {
		return tiers.PlanNone
	}
	if t := tiers.ParsePlanType(p.Type); t != tiers.PlanNone {
		return t
	}
	return tiers.ParsePlanType(p.Interval)
}
