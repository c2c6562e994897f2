package users

import (
	"time"

	"defi-academy/internal/domain/access"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/infra/stripe"
)

func BuildPlanDTO(p *plans.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:            p.ID,
		Name:          p.Name,
		Type:          string(plans.TypeOf(p)),
		Interval:      p.Interval,
		PriceCents:    p.PriceCents,
		Currency:      p.Currency,
		StripePriceID: p.StripePriceID,
	}
}

func BuildSubscriptionDTO(now time.Time, u users.User) *SubscriptionDTO {
	if u.SubscriptionId == nil || *u.SubscriptionId == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:               stripe.NormalizeStripeStatus(u.StripeSubscriptionStatus),
		StartsAt:             u.SubscriptionStart,
		CurrentPeriodEnd:     u.CurrentPeriodEnd,
		StripeSubscriptionID: u.SubscriptionId,
		Entitled:             stripe.Entitles(u.StripeSubscriptionStatus, u.CurrentPeriodEnd, now),
	}
}

func BuildAccessDTO(surface access.Surface, policy access.Policy) AccessDTO {
	return AccessDTO{
		Tier:         string(policy.Tier),
		Capabilities: policy.Capabilities,
		Voting: VotingDTO{
			CanVote: policy.Voting.CanVote,
			Weight:  policy.Voting.Weight,
		},
		Commission: CommissionDTO{
			Rate: surface.Rules().CommissionRates.RateFor(policy.Tier),
		},
	}
}

func BuildReferralDTO(appURL string, u users.User) ReferralDTO {
	if u.ReferralCode == nil || *u.ReferralCode == "" {
		return ReferralDTO{}
	}
	return ReferralDTO{
		Code: *u.ReferralCode,
		Link: users.BuildReferralURL(appURL, *u.ReferralCode),
	}
}
