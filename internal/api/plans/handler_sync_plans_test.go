package plans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/plans"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&plans.Plan{}))
	return db
}

func academyPrice(id string, interval stripe.PriceRecurringInterval, amount int64, md map[string]string) *stripe.Price {
	return &stripe.Price{
		ID:         id,
		Active:     true,
		Currency:   stripe.CurrencyUSD,
		UnitAmount: amount,
		Recurring:  &stripe.PriceRecurring{Interval: interval},
		Product:    &stripe.Product{ID: "prod_academy", Name: "DeFi Academy", Active: true},
		Metadata:   md,
	}
}

func TestPlanFromPrice(t *testing.T) {
	t.Run("metadata plan type wins", func(t *testing.T) {
		p, ok := planFromPrice(academyPrice("price_1", stripe.PriceRecurringIntervalMonth, 9900, map[string]string{"plan_type": "annual", "plan": "Annual (billed monthly)"}), "")
		require.True(t, ok)
		assert.Equal(t, "annual", p.Type)
		assert.Equal(t, "Annual (billed monthly)", p.Name)
		assert.Equal(t, int64(9900), p.PriceCents)
		assert.Equal(t, "usd", p.Currency)
	})

	t.Run("interval fallback", func(t *testing.T) {
		p, ok := planFromPrice(academyPrice("price_2", stripe.PriceRecurringIntervalYear, 9900, nil), "")
		require.True(t, ok)
		assert.Equal(t, "", p.Type)
		assert.Equal(t, "year", p.Interval)
	})

	t.Run("weekly price is skipped", func(t *testing.T) {
		_, ok := planFromPrice(academyPrice("price_3", stripe.PriceRecurringIntervalWeek, 100, nil), "")
		assert.False(t, ok)
	})

	t.Run("other product is skipped", func(t *testing.T) {
		_, ok := planFromPrice(academyPrice("price_4", stripe.PriceRecurringIntervalMonth, 4900, nil), "prod_other")
		assert.False(t, ok)
	})

	t.Run("hidden price is skipped", func(t *testing.T) {
		_, ok := planFromPrice(academyPrice("price_5", stripe.PriceRecurringIntervalMonth, 4900, map[string]string{"visible": "false"}), "")
		assert.False(t, ok)
	})
}

func TestUpsertPlan(t *testing.T) {
	db := setupTestDB(t)

	p, ok := planFromPrice(academyPrice("price_m", stripe.PriceRecurringIntervalMonth, 4900, map[string]string{"plan_type": "monthly"}), "")
	require.True(t, ok)

	created, err := upsertPlan(db, p)
	require.NoError(t, err)
	assert.True(t, created)

	p.PriceCents = 5900
	p.Type = ""
	created, err = upsertPlan(db, p)
	require.NoError(t, err)
	assert.False(t, created)

	var stored plans.Plan
	require.NoError(t, db.Where("stripe_price_id = ?", "price_m").First(&stored).Error)
	assert.Equal(t, int64(5900), stored.PriceCents)
	assert.Equal(t, "monthly", stored.Type)
}

func TestListPlans(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	prevDB, prevProduct := database.DB, config.STRIPE_ACADEMY_PRODUCT_ID
	database.DB, config.STRIPE_ACADEMY_PRODUCT_ID = db, "prod_academy"
	t.Cleanup(func() { database.DB, config.STRIPE_ACADEMY_PRODUCT_ID = prevDB, prevProduct })

	require.NoError(t, db.Create(&[]plans.Plan{
		{Name: "Annual", PriceCents: 9900, StripePriceID: "price_a", StripeProductID: "prod_academy", Interval: "year", Type: "annual"},
		{Name: "Monthly", PriceCents: 4900, StripePriceID: "price_m", StripeProductID: "prod_academy", Interval: "month", Type: "monthly"},
		{Name: "Legacy", PriceCents: 100, StripePriceID: "price_l", StripeProductID: "prod_legacy", Interval: "month"},
	}).Error)

	r := gin.New()
	r.GET("/plans", ListPlans)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plans", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got []plans.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Monthly", got[0].Name)
	assert.Equal(t, "Annual", got[1].Name)
}
