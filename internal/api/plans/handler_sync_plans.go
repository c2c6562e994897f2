package plans

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/tiers"
	"defi-academy/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// POST /admin/sync-plans
func SyncPlansFromStripe(c *gin.Context) {
	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String("recurring")
	params.AddExpand("data.product")

	it := price.List(params)

	synced := 0
	created := 0
	updated := 0
	skipped := 0

	for it.Next() {
		plan, ok := planFromPrice(it.Price(), config.STRIPE_ACADEMY_PRODUCT_ID)
		if !ok {
			skipped++
			continue
		}

		wasCreated, err := upsertPlan(database.DB, plan)
		if err != nil {
			logger.L().Error("plans: sync", zap.String("price_id", plan.StripePriceID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store plan"})
			return
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
		synced++
	}

	if err := it.Err(); err != nil {
		logger.L().Error("plans: list stripe prices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe prices"})
		return
	}

	logger.L().Info("plans synced",
		zap.Int("synced", synced),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("skipped", skipped),
	)
	c.JSON(http.StatusOK, gin.H{
		"synced":  synced,
		"created": created,
		"updated": updated,
		"skipped": skipped,
	})
}

// GET /plans
func ListPlans(c *gin.Context) {
	var plansList []plans.Plan
	q := database.DB.Model(&plans.Plan{})

	if config.STRIPE_ACADEMY_PRODUCT_ID != "" {
		q = q.Where("stripe_product_id = ?", config.STRIPE_ACADEMY_PRODUCT_ID)
	}

	if err := q.Order("price_cents ASC").Find(&plansList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	c.JSON(http.StatusOK, plansList)
}

// planFromPrice maps a recurring Stripe price to a plan. The plan type comes
// from price metadata "plan_type", falling back to the billing interval;
// prices that resolve to neither monthly nor annual are skipped.
func planFromPrice(p *stripe.Price, productID string) (plans.Plan, bool) {
	if p == nil || !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
		return plans.Plan{}, false
	}
	if productID != "" && p.Product.ID != productID {
		return plans.Plan{}, false
	}
	if p.Metadata != nil && p.Metadata["visible"] == "false" {
		return plans.Plan{}, false
	}

	plan := plans.Plan{
		Name:            p.Product.Name,
		PriceCents:      p.UnitAmount,
		Currency:        strings.ToLower(string(p.Currency)),
		StripePriceID:   p.ID,
		StripeProductID: p.Product.ID,
		Interval:        string(p.Recurring.Interval),
	}
	if p.Metadata != nil {
		if v := strings.TrimSpace(p.Metadata["plan"]); v != "" {
			plan.Name = v
		}
		plan.Type = string(tiers.ParsePlanType(p.Metadata["plan_type"]))
	}
	if plans.TypeOf(&plan) == tiers.PlanNone {
		return plans.Plan{}, false
	}
	return plan, true
}

func upsertPlan(db *gorm.DB, plan plans.Plan) (bool, error) {
	var existing plans.Plan
	err := db.Where("stripe_price_id = ?", plan.StripePriceID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&plan).Error; err != nil {
			return false, fmt.Errorf("failed to create plan: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	existing.Name = plan.Name
	existing.PriceCents = plan.PriceCents
	existing.Currency = plan.Currency
	existing.StripeProductID = plan.StripeProductID
	existing.Interval = plan.Interval
	if plan.Type != "" {
		existing.Type = plan.Type
	}
	if err := db.Save(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to update plan: %w", err)
	}
	return false, nil
}
