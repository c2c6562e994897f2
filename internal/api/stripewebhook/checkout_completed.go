package stripewebhooks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"defi-academy/database"
	"defi-academy/internal/domain/billing"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/referrals"
	"defi-academy/internal/domain/users"
	infrastripe "defi-academy/internal/infra/stripe"
	"defi-academy/internal/logger"
	"defi-academy/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/subscription"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// completedCheckout is the part of a checkout session the database cares about.
type completedCheckout struct {
	SessionID      string
	UserID         uint
	CustomerID     string
	SubscriptionID string
	PriceID        string
	Status         string
	PeriodEnd      time.Time
	AmountCents    int64
	NetCents       int64
	Currency       string
	InvoiceID      string
	ReceiptURL     string
}

func handleCheckoutSessionCompleted(c *gin.Context, session *stripe.CheckoutSession) error {
	expand := []*string{
		stripe.String("subscription"),
		stripe.String("customer"),
	}
	for _, e := range infrastripe.NetAmountExpansions {
		expand = append(expand, stripe.String(e))
	}

	// Fetch full session with expansions
	fullSession, err := checkoutsession.Get(session.ID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Expand: expand},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch expanded checkout session: %w", err)
	}

	if fullSession.Subscription == nil || fullSession.Subscription.ID == "" {
		return errors.New("checkout session missing subscription")
	}
	subscriptionID := fullSession.Subscription.ID

	subData, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription: %w", err)
	}
	price, err := subscriptionPrice(subData)
	if err != nil {
		return err
	}

	// Identify user: metadata.user_id preferred, else ClientReferenceID
	userID, err := userIDFromSubscriptionOrRef(subData, fullSession.ClientReferenceID)
	if err != nil {
		return err
	}

	cc := completedCheckout{
		SessionID:      fullSession.ID,
		UserID:         userID,
		SubscriptionID: subscriptionID,
		PriceID:        price.ID,
		Status:         string(subData.Status),
		PeriodEnd:      time.Unix(subData.CurrentPeriodEnd, 0),
		AmountCents:    fullSession.AmountTotal,
		NetCents:       infrastripe.NetAmountCents(fullSession),
		Currency:       string(fullSession.Currency),
	}
	if fullSession.Customer != nil {
		cc.CustomerID = fullSession.Customer.ID
	}
	if inv := fullSession.Invoice; inv != nil {
		cc.InvoiceID = inv.ID
		if inv.Charge != nil {
			cc.ReceiptURL = inv.Charge.ReceiptURL
		}
	}

	var before users.User
	_ = database.DB.Select("id", "subscription_id").First(&before, userID).Error
	previousSub := before.SubscriptionId

	if _, err := applyCheckout(c.Request.Context(), database.DB, nowFunc(), cc); err != nil {
		return err
	}

	// one live subscription per user
	if previousSub != nil && *previousSub != "" && *previousSub != subscriptionID {
		if _, err := subscription.Cancel(*previousSub, nil); err != nil {
			logger.L().Warn("stripe: cancel previous subscription",
				zap.Uint("user_id", userID),
				zap.String("subscription_id", *previousSub),
				zap.Error(err),
			)
		}
	}
	return nil
}

// applyCheckout moves the buyer onto the purchased plan, records the payment
// and, for referred buyers, the referrer's commission. It returns the
// commission when one was created by this call.
func applyCheckout(ctx context.Context, db *gorm.DB, now time.Time, cc completedCheckout) (*referrals.Commission, error) {
	var created *referrals.Commission

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user users.User
		if err := tx.First(&user, cc.UserID).Error; err != nil {
			return fmt.Errorf("user not found: %w", err)
		}

		// Map Stripe price -> Plan
		var plan plans.Plan
		if err := tx.Where("stripe_price_id = ?", cc.PriceID).First(&plan).Error; err != nil {
			return fmt.Errorf("plan not found for stripe price_id=%s: %w", cc.PriceID, err)
		}

		payment := billing.Payment{
			UserID:               user.ID,
			PlanID:               &plan.ID,
			StripeSessionID:      cc.SessionID,
			StripeSubscriptionID: optional(cc.SubscriptionID),
			AmountCents:          cc.AmountCents,
			NetCents:             cc.NetCents,
			Currency:             cc.Currency,
			Status:               "paid",
			InvoiceID:            optional(cc.InvoiceID),
			ReceiptURL:           optional(cc.ReceiptURL),
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_session_id"}},
			DoNothing: true,
		}).Create(&payment)
		if res.Error != nil {
			return fmt.Errorf("failed to record payment: %w", res.Error)
		}

		updates := map[string]interface{}{
			"plan_id":                    plan.ID,
			"subscription_id":            cc.SubscriptionID,
			"current_period_end":         cc.PeriodEnd,
			"stripe_subscription_status": cc.Status,
		}
		// a replayed session keeps the original start
		if res.RowsAffected > 0 {
			updates["subscription_start"] = now
		}
		if cc.CustomerID != "" {
			updates["stripe_customer_id"] = cc.CustomerID
		}
		if err := tx.Model(&users.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update user after checkout: %w", err)
		}

		c, err := recordReferralCommission(ctx, tx, now, user, &plan, cc)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		metrics.CommissionsRecorded.WithLabelValues(created.ReferrerTierAtPurchase).Inc()
		metrics.CommissionCents.WithLabelValues(string(referrals.StatusPending)).Add(float64(created.CommissionAmountCents))
		logger.L().Info("referral commission recorded",
			zap.Uint("commission_id", created.ID),
			zap.Uint("referrer_id", created.ReferrerID),
			zap.Uint("referred_user_id", created.ReferredUserID),
			zap.String("referrer_tier", created.ReferrerTierAtPurchase),
			zap.Float64("rate", created.RateApplied),
			zap.Int64("amount_cents", created.CommissionAmountCents),
		)
	}
	return created, nil
}

var errNoSubscriptionPrice = errors.New("subscription has no priced items")

func subscriptionPrice(sub *stripe.Subscription) (*stripe.Price, error) {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0] == nil || sub.Items.Data[0].Price == nil {
		return nil, errNoSubscriptionPrice
	}
	return sub.Items.Data[0].Price, nil
}

func userIDFromSubscriptionOrRef(sub *stripe.Subscription, clientRef string) (uint, error) {
	userIDStr := ""
	if sub.Metadata != nil {
		userIDStr = sub.Metadata["user_id"]
	}
	if userIDStr == "" {
		userIDStr = clientRef
	}
	if userIDStr == "" {
		return 0, errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}

	uid64, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user_id %q: %w", userIDStr, err)
	}
	return uint(uid64), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
