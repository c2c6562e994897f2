package tiers

import "strings"

type Tier string

// Tier constants (single source of truth)
const (
	TierNone     Tier = "none"
	TierMonthly  Tier = "monthly"
	TierAnnual   Tier = "annual"
	TierFounding Tier = "founding"
	TierAdmin    Tier = "admin"
)

// All lists the tiers from least to most privileged.
func All() []Tier {
	return []Tier{TierNone, TierMonthly, TierAnnual, TierFounding, TierAdmin}
}

type PlanType string

const (
	PlanNone    PlanType = ""
	PlanMonthly PlanType = "monthly"
	PlanAnnual  PlanType = "annual"
)

// Subscriber is the read-only snapshot the rules are evaluated against.
type Subscriber struct {
	Plan             PlanType
	IsFoundingMember bool
	IsAdmin          bool
}

// Classify returns the caller's tier. First match wins:
// admin, founding, annual, monthly, none.
func Classify(s Subscriber) Tier {
	switch {
	case s.IsAdmin:
		return TierAdmin
	case s.IsFoundingMember:
		return TierFounding
	case s.Plan == PlanAnnual:
		return TierAnnual
	case s.Plan == PlanMonthly:
		return TierMonthly
	default:
		return TierNone
	}
}

// rank orders tiers by privilege. founding and admin share a rank:
// neither holds a capability the other lacks.
func (t Tier) rank() int {
	switch t {
	case TierAdmin, TierFounding:
		return 3
	case TierAnnual:
		return 2
	case TierMonthly:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t carries every capability of o.
func (t Tier) AtLeast(o Tier) bool {
	return t.rank() >= o.rank()
}

func (t Tier) IsAnnualOrAbove() bool {
	return t.AtLeast(TierAnnual)
}

func (t Tier) Valid() bool {
	switch t {
	case TierNone, TierMonthly, TierAnnual, TierFounding, TierAdmin:
		return true
	}
	return false
}

// Parse normalizes a stored tier string. Anything unknown is TierNone so
// missing data never reads as elevated privilege.
func Parse(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return TierNone
	}
	return t
}

// ParsePlanType accepts the plan names used in Stripe metadata as well as
// Stripe's recurring intervals ("month", "year").
func ParsePlanType(s string) PlanType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month":
		return PlanMonthly
	case "annual", "yearly", "year":
		return PlanAnnual
	default:
		return PlanNone
	}
}
