package access

import (
	"time"

	"defi-academy/internal/domain/referrals"
	"defi-academy/internal/domain/roadmap"
	"defi-academy/internal/domain/tiers"
)

// Surface is the only place presentation code asks gating questions.
type Surface struct {
	rules Rules
}

func NewSurface(rules Rules) Surface {
	return Surface{rules: rules}
}

func (s Surface) Rules() Rules {
	return s.rules
}

func (s Surface) CourseAccess(now time.Time, sub tiers.Subscriber, w Window) Gate {
	return ResolveAccess(now, tiers.Classify(sub), w, s.rules.EarlyAccessWindowDays)
}

func (s Surface) CanSeeCourse(now time.Time, sub tiers.Subscriber, w Window) bool {
	return !s.CourseAccess(now, sub, w).IsLocked
}

func (s Surface) VotingBadge(sub tiers.Subscriber) roadmap.VotingPower {
	return roadmap.ResolveVoting(tiers.Classify(sub))
}

// CommissionForPurchase classifies the referrer as given. Callers pass the
// snapshot taken when the purchase completes.
func (s Surface) CommissionForPurchase(referrer tiers.Subscriber, planType tiers.PlanType, amountCents int64) referrals.Quote {
	return referrals.ComputeCommission(s.rules.CommissionRates, tiers.Classify(referrer), planType, amountCents)
}

type Policy struct {
	Tier         tiers.Tier
	Voting       roadmap.VotingPower
	Capabilities []string
}

func (s Surface) ComputePolicy(sub tiers.Subscriber) Policy {
	tier := tiers.Classify(sub)

	return Policy{
		Tier:         tier,
		Voting:       roadmap.ResolveVoting(tier),
		Capabilities: CapabilitiesFor(tier, s.rules),
	}
}
