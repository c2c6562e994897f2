package referrals

import (
	"errors"
	"strings"
	"time"

	"defi-academy/internal/domain/tiers"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

var (
	ErrAlreadyPaid = errors.New("commission already paid")
	ErrNotFound    = errors.New("commission not found")
)

// Commission is immutable after creation except for the pending -> paid
// transition (Status, PaidAt, AdminNotes).
type Commission struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ReferrerID     uint   `gorm:"not null;index" json:"referrer_id"`
	ReferredUserID uint   `gorm:"not null;index" json:"referred_user_id"`
	PurchaseRef    string `gorm:"column:purchase_ref;not null;uniqueIndex:idx_commissions_purchase_ref" json:"purchase_ref"`

	PlanType                string  `gorm:"type:varchar(20);not null" json:"plan_type"`
	SubscriptionAmountCents int64   `gorm:"not null" json:"subscription_amount_cents"`
	CommissionAmountCents   int64   `gorm:"not null" json:"commission_amount_cents"`
	RateApplied             float64 `gorm:"not null" json:"rate_applied"`
	ReferrerTierAtPurchase  string  `gorm:"type:varchar(20);not null" json:"referrer_tier_at_purchase"`

	Status     Status     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaidAt     *time.Time `json:"paid_at"`
	AdminNotes string     `gorm:"type:text" json:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewCommission freezes a quote into a pending record.
func NewCommission(referrerID, referredUserID uint, purchaseRef string, netAmountCents int64, q Quote) Commission {
	return Commission{
		ReferrerID:              referrerID,
		ReferredUserID:          referredUserID,
		PurchaseRef:             purchaseRef,
		PlanType:                string(q.PlanType),
		SubscriptionAmountCents: netAmountCents,
		CommissionAmountCents:   q.CommissionCents,
		RateApplied:             q.RateApplied,
		ReferrerTierAtPurchase:  string(q.ReferrerTier),
		Status:                  StatusPending,
	}
}

func (c *Commission) MarkPaid(now time.Time, notes string) error {
	if c.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	c.Status = StatusPaid
	c.PaidAt = &now
	c.AdminNotes = strings.TrimSpace(notes)
	return nil
}

func (c Commission) ReferrerTier() tiers.Tier {
	return tiers.Parse(c.ReferrerTierAtPurchase)
}

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusPaid:
		return StatusPaid, true
	}
	return "", false
}
