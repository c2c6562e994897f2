package stripewebhooks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"defi-academy/database"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// subscriptionChange only moves the subscriber's plan and status. Tier
// changes take effect on future purchases; stored commissions keep their
// snapshot.
type subscriptionChange struct {
	SubscriptionID string
	UserID         uint
	PriceID        string
	Status         string
	PeriodEnd      time.Time
}

func handleSubscriptionChanged(c *gin.Context, sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	ch := subscriptionChange{
		SubscriptionID: sub.ID,
		UserID:         userIDFromMetadata(sub.Metadata),
		Status:         string(sub.Status),
		PeriodEnd:      time.Unix(sub.CurrentPeriodEnd, 0),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		ch.PriceID = sub.Items.Data[0].Price.ID
	}
	return applySubscriptionChange(c.Request.Context(), database.DB, ch)
}

// applySubscriptionChange acknowledges events for users or prices it does not
// know so Stripe stops retrying them.
func applySubscriptionChange(ctx context.Context, db *gorm.DB, ch subscriptionChange) error {
	db = db.WithContext(ctx)

	var user users.User
	if ch.UserID != 0 {
		_ = db.Where("id = ?", ch.UserID).First(&user).Error
	}
	if user.ID == 0 {
		_ = db.Where("subscription_id = ?", ch.SubscriptionID).First(&user).Error
	}
	if user.ID == 0 {
		return nil
	}
	// a stale event for a subscription the user already replaced
	if user.SubscriptionId != nil && *user.SubscriptionId != "" && *user.SubscriptionId != ch.SubscriptionID {
		return nil
	}

	updates := map[string]interface{}{
		"stripe_subscription_status": ch.Status,
		"current_period_end":         ch.PeriodEnd,
		"subscription_id":            ch.SubscriptionID,
	}

	if ch.PriceID != "" {
		var plan plans.Plan
		err := db.Where("stripe_price_id = ?", ch.PriceID).First(&plan).Error
		switch {
		case err == nil:
			updates["plan_id"] = plan.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to map subscription price: %w", err)
		}
	}

	return db.Model(&users.User{}).
		Where("id = ?", user.ID).
		Updates(updates).Error
}

func userIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	s := md["user_id"]
	if s == "" {
		return 0
	}
	uid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(uid)
}
