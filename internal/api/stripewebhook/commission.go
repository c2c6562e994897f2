package stripewebhooks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"defi-academy/config"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/referrals"
	"defi-academy/internal/domain/tiers"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recordReferralCommission snapshots the referrer's tier as of now and stores
// the resulting commission. Buyers without a referrer, self-referrals and
// vanished referrers produce nothing. A replayed purchase returns nil.
func recordReferralCommission(ctx context.Context, tx *gorm.DB, now time.Time, buyer users.User, plan *plans.Plan, cc completedCheckout) (*referrals.Commission, error) {
	if buyer.ReferredByID == nil || *buyer.ReferredByID == 0 || *buyer.ReferredByID == buyer.ID {
		return nil, nil
	}

	var referrer users.User
	if err := tx.Preload("Plan").First(&referrer, *buyer.ReferredByID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.L().Warn("referral commission skipped: referrer missing",
				zap.Uint("buyer_id", buyer.ID),
				zap.Uint("referrer_id", *buyer.ReferredByID),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load referrer: %w", err)
	}

	planType := plans.TypeOf(plan)
	if planType == tiers.PlanNone {
		logger.L().Warn("referral commission skipped: plan has no type",
			zap.Uint("plan_id", plan.ID),
			zap.String("session_id", cc.SessionID),
		)
		return nil, nil
	}

	quote := config.Surface().CommissionForPurchase(referrer.Subscriber(now), planType, cc.NetCents)
	commission := referrals.NewCommission(referrer.ID, buyer.ID, cc.SessionID, cc.NetCents, quote)

	created, err := referrals.Record(ctx, tx, &commission)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	return &commission, nil
}
