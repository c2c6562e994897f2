package access

import (
	"defi-academy/internal/domain/roadmap"
	"defi-academy/internal/domain/tiers"
)

const (
	CapCourses         = "courses"
	CapEarlyAccess     = "early_access"
	CapRoadmapVote     = "roadmap_vote"
	CapPremiumReferral = "premium_referral_rate"
	CapAdminConsole    = "admin_console"
)

// CapabilitiesFor lists what a tier unlocks. Every entry is derived from the
// same resolvers the handlers use, never from raw thresholds.
func CapabilitiesFor(tier tiers.Tier, rules Rules) []string {
	caps := []string{CapCourses}

	if tier.IsAnnualOrAbove() {
		caps = append(caps, CapEarlyAccess)
	}
	if roadmap.ResolveVoting(tier).CanVote {
		caps = append(caps, CapRoadmapVote)
	}
	if rules.CommissionRates.RateFor(tier) > rules.CommissionRates.Monthly {
		caps = append(caps, CapPremiumReferral)
	}
	if tier == tiers.TierAdmin {
		caps = append(caps, CapAdminConsole)
	}
	return caps
}
