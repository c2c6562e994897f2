package admin

import (
	"net/http"
	"strconv"
	"time"

	"defi-academy/database"
	"defi-academy/internal/domain/billing"
	"defi-academy/internal/domain/referrals"
	"defi-academy/internal/domain/tiers"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var nowFunc = time.Now

type AdminUser struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Lastname           string     `json:"lastname"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	IsVerified         bool       `json:"is_verified"`
	IsFoundingMember   bool       `json:"is_founding_member"`
	Tier               tiers.Tier `json:"tier"`
	PlanName           *string    `json:"plan_name,omitempty"`
	StripeCustomerID   *string    `json:"stripe_customer_id,omitempty"`
	StripeSubID        *string    `json:"stripe_subscription_id,omitempty"`
	SubscriptionStatus *string    `json:"subscription_status,omitempty"`
	SubscriptionStart  *time.Time `json:"subscription_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	ReferralCode       *string    `json:"referral_code,omitempty"`
	ReferredByID       *uint      `json:"referred_by_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type AdminPayment struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	PlanName    *string `json:"plan_name,omitempty"`
	AmountCents int64   `json:"amount_cents"`
	NetCents    int64   `json:"net_cents"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	InvoiceID   *string `json:"invoice_id,omitempty"`
	ReceiptURL  *string `json:"receipt_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers        int64              `json:"total_users"`
	UsersPerTier      map[tiers.Tier]int `json:"users_per_tier"`
	TotalRevenueCents int64              `json:"total_revenue_cents"`
	NetRevenueCents   int64              `json:"net_revenue_cents"`
	RecentRevenue     int64              `json:"recent_revenue_cents"`
	Commissions       referrals.Summary  `json:"commissions"`
}

func toAdminUser(u users.User, now time.Time) AdminUser {
	var planName *string
	if u.Plan != nil {
		planName = &u.Plan.Name
	}
	return AdminUser{
		ID:                 u.ID,
		Name:               u.Name,
		Lastname:           u.Lastname,
		Email:              u.Email,
		Role:               u.Role,
		IsVerified:         u.IsVerified,
		IsFoundingMember:   u.IsFoundingMember,
		Tier:               u.Tier(now),
		PlanName:           planName,
		StripeCustomerID:   u.StripeCustomerID,
		StripeSubID:        u.SubscriptionId,
		SubscriptionStatus: u.StripeSubscriptionStatus,
		SubscriptionStart:  u.SubscriptionStart,
		CurrentPeriodEnd:   u.CurrentPeriodEnd,
		ReferralCode:       u.ReferralCode,
		ReferredByID:       u.ReferredByID,
		CreatedAt:          u.CreatedAt,
	}
}

func toAdminPayment(p billing.Payment) AdminPayment {
	var planName *string
	if p.Plan != nil {
		planName = &p.Plan.Name
	}
	return AdminPayment{
		ID:          p.ID,
		Email:       p.User.Email,
		PlanName:    planName,
		AmountCents: p.AmountCents,
		NetCents:    p.NetCents,
		Currency:    p.Currency,
		Status:      p.Status,
		InvoiceID:   p.InvoiceID,
		ReceiptURL:  p.ReceiptURL,
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// GET /admin/dashboard
func AdminDashboard(c *gin.Context) {
	now := nowFunc()
	ctx := c.Request.Context()

	var all []users.User
	if err := database.DB.WithContext(ctx).Preload("Plan").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	stats := AdminStats{
		TotalUsers:   int64(len(all)),
		UsersPerTier: map[tiers.Tier]int{},
	}
	for _, t := range tiers.All() {
		stats.UsersPerTier[t] = 0
	}
	// tier depends on subscription status at now, so it is classified here
	for _, u := range all {
		stats.UsersPerTier[u.Tier(now)]++
	}

	paid := database.DB.WithContext(ctx).Model(&billing.Payment{}).Where("status = ?", "paid")
	paid.Session(&gorm.Session{}).Select("COALESCE(SUM(amount_cents), 0)").Scan(&stats.TotalRevenueCents)
	paid.Session(&gorm.Session{}).Select("COALESCE(SUM(net_cents), 0)").Scan(&stats.NetRevenueCents)
	paid.Session(&gorm.Session{}).
		Where("created_at >= ?", now.AddDate(0, 0, -30)).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&stats.RecentRevenue)

	summary, err := referrals.SummaryFor(ctx, database.DB, 0)
	if err != nil {
		logger.L().Error("admin: commission summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load commissions"})
		return
	}
	stats.Commissions = summary

	c.JSON(http.StatusOK, stats)
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var list []users.User
	err := database.DB.Preload("Plan").Order("id ASC").Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	now := nowFunc()
	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, toAdminUser(u, now))
	}

	c.JSON(http.StatusOK, adminUsers)
}

// GET /admin/payments
func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	err := database.DB.Preload("User").Preload("Plan").Order("created_at DESC").Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	result := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		result = append(result, toAdminPayment(p))
	}

	c.JSON(http.StatusOK, result)
}

// GET /admin/user/:id
func GetUserDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	userID := uint(id)

	var user users.User
	if err := database.DB.Preload("Plan").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.Preload("User").Preload("Plan").Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}
	adminPayments := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		adminPayments = append(adminPayments, toAdminPayment(p))
	}

	summary, err := referrals.SummaryFor(c.Request.Context(), database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch commissions"})
		return
	}

	var referred int64
	database.DB.Model(&users.User{}).Where("referred_by_id = ?", userID).Count(&referred)

	c.JSON(http.StatusOK, gin.H{
		"user":           toAdminUser(user, nowFunc()),
		"payments":       adminPayments,
		"commissions":    summary,
		"referred_users": referred,
	})
}

type FoundingRequest struct {
	IsFoundingMember *bool `json:"is_founding_member" binding:"required"`
}

// PATCH /admin/user/:id/founding
//
// Founding status lifts a user to the founding tier for voting and early
// access. Commissions already recorded keep the tier they were computed with.
func SetFoundingMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req FoundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_founding_member is required"})
		return
	}

	var user users.User
	if err := database.DB.Preload("Plan").First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", user.ID).Update("is_founding_member", *req.IsFoundingMember).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	user.IsFoundingMember = *req.IsFoundingMember

	logger.L().Info("founding member updated",
		zap.Uint64("user_id", id),
		zap.Bool("is_founding_member", *req.IsFoundingMember),
		zap.Uint("admin_id", c.GetUint("user_id")),
	)
	c.JSON(http.StatusOK, toAdminUser(user, nowFunc()))
}
