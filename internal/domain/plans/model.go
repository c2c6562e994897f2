package plans

type Plan struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `json:"name"`
	PriceCents      int64  `json:"price_cents"`
	Currency        string `gorm:"type:varchar(3);default:'usd'" json:"currency"`
	StripePriceID   string `gorm:"column:stripe_price_id;not null;uniqueIndex:idx_plans_stripe_price_id" json:"stripe_price_id"`
	StripeProductID string `gorm:"column:stripe_product_id;index" json:"stripe_product_id"`
	Interval        string `json:"interval"`                         // Stripe recurring interval: "month" | "year"
	Type            string `gorm:"column:plan_type" json:"plan_type"` // "monthly" | "annual"
}
