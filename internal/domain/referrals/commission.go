package referrals

import (
	"errors"
	"fmt"
	"math"

	"defi-academy/internal/domain/tiers"
)

// Rates are fractions in [0,1] applied to the net subscription amount.
// Monthly is the base rate, Annual the premium rate.
type Rates struct {
	Monthly float64
	Annual  float64
}

func DefaultRates() Rates {
	return Rates{Monthly: 0.10, Annual: 0.20}
}

func (r Rates) Validate() error {
	if !validRate(r.Monthly) {
		return fmt.Errorf("monthly commission rate %v outside [0,1]", r.Monthly)
	}
	if !validRate(r.Annual) {
		return fmt.Errorf("annual commission rate %v outside [0,1]", r.Annual)
	}
	return nil
}

// validRate is false for NaN as well as out-of-range values.
func validRate(rate float64) bool {
	return rate >= 0 && rate <= 1
}

// RateFor picks the rate from the referrer's own tier. The plan being
// purchased plays no part.
func (r Rates) RateFor(referrer tiers.Tier) float64 {
	if referrer.IsAnnualOrAbove() {
		return r.Annual
	}
	return r.Monthly
}

type Quote struct {
	ReferrerTier    tiers.Tier
	PlanType        tiers.PlanType
	RateApplied     float64
	CommissionCents int64
}

var ErrInvalidPlanType = errors.New("plan type must be monthly or annual")

// ComputeCommission is called once, when the referred purchase completes.
// netAmountCents is already net of processor fees.
func ComputeCommission(rates Rates, referrer tiers.Tier, planType tiers.PlanType, netAmountCents int64) Quote {
	rate := rates.RateFor(referrer)

	var cents int64
	if netAmountCents > 0 && validRate(rate) {
		cents = int64(math.Round(float64(netAmountCents) * rate))
	}

	return Quote{
		ReferrerTier:    referrer,
		PlanType:        planType,
		RateApplied:     rate,
		CommissionCents: cents,
	}
}
