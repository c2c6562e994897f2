package billing

import (
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/users"
	"time"
)

// Payment is one completed checkout. NetCents is what remains after the
// payment processor's fee and is the base for referral commissions.
type Payment struct {
	ID                   uint `gorm:"primaryKey"`
	UserID               uint
	User                 users.User
	PlanID               *uint
	Plan                 *plans.Plan
	StripeSessionID      string `gorm:"uniqueIndex"`
	StripeSubscriptionID *string
	AmountCents          int64
	NetCents             int64
	Currency             string
	Status               string
	InvoiceID            *string
	ReceiptURL           *string
	CreatedAt            time.Time
}
