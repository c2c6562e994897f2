package users

import (
	"defi-academy/internal/domain/plans"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Lastname     string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"`
	IsVerified   bool

	IsFoundingMember bool `gorm:"column:is_founding_member;not null;default:false"`

	PlanID *uint
	Plan   *plans.Plan

	SubscriptionStart        *time.Time
	SubscriptionId           *string    `gorm:"column:subscription_id;uniqueIndex:idx_users_subscription_id"`
	StripeCustomerID         *string    `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id"`
	StripeSubscriptionStatus *string    `gorm:"column:stripe_subscription_status"`
	CurrentPeriodEnd         *time.Time `gorm:"column:current_period_end"`

	ReferralCode *string `gorm:"column:referral_code;uniqueIndex:idx_users_referral_code"`
	ReferredByID *uint   `gorm:"column:referred_by_id;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
