package users

import "time"

type MeResponse struct {
	User     UserDTO     `json:"user"`
	Billing  BillingDTO  `json:"billing"`
	Access   AccessDTO   `json:"access"`
	Referral ReferralDTO `json:"referral"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Lastname         string `json:"lastname"`
	Role             string `json:"role"`
	IsVerified       bool   `json:"is_verified"`
	IsFoundingMember bool   `json:"is_founding_member"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Plan         *PlanDTO         `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

type PlanDTO struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"plan_type"`
	Interval      string `json:"interval"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
	StripePriceID string `json:"stripe_price_id"`
}

type SubscriptionDTO struct {
	Status               string     `json:"status"`
	StartsAt             *time.Time `json:"starts_at"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
	Entitled             bool       `json:"entitled"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	Tier         string        `json:"tier"` // none|monthly|annual|founding|admin
	Capabilities []string      `json:"capabilities"`
	Voting       VotingDTO     `json:"voting"`
	Commission   CommissionDTO `json:"commission"`
}

type VotingDTO struct {
	CanVote bool `json:"can_vote"`
	Weight  int  `json:"weight"`
}

// CommissionDTO is the rate the caller would earn on a referral today.
type CommissionDTO struct {
	Rate float64 `json:"rate"`
}

/* ---------- REFERRAL ---------- */

type ReferralDTO struct {
	Code string `json:"code"`
	Link string `json:"link"`
}
