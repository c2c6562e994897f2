package referrals

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/referrals"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/infra/mail"
	"defi-academy/internal/logger"
	"defi-academy/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var nowFunc = time.Now

const maxListed = 200

type PayRequest struct {
	AdminNotes string `json:"admin_notes"`
}

// GET /referrals
func GetMyReferrals(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Preload("Plan").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	code, err := users.EnsureReferralCode(database.DB, &user)
	if err != nil {
		logger.L().Error("referrals: code", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load referral code"})
		return
	}

	ctx := c.Request.Context()
	summary, err := referrals.SummaryFor(ctx, database.DB, userID)
	if err != nil {
		logger.L().Error("referrals: summary", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load commissions"})
		return
	}

	var list []referrals.Commission
	if err := referrals.ListQuery(database.DB.WithContext(ctx), userID, "").Limit(maxListed).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load commissions"})
		return
	}

	var referredCount int64
	database.DB.Model(&users.User{}).Where("referred_by_id = ?", userID).Count(&referredCount)

	surface := config.Surface()
	tier := user.Tier(nowFunc())

	c.JSON(http.StatusOK, gin.H{
		"code":           code,
		"link":           users.BuildReferralURL(config.APP_URL, code),
		"current_rate":   surface.Rules().CommissionRates.RateFor(tier),
		"referred_users": referredCount,
		"summary":        summary,
		"commissions":    list,
	})
}

// GET /admin/commissions?status=pending|paid
func ListCommissions(c *gin.Context) {
	var status referrals.Status
	if raw := c.Query("status"); raw != "" {
		s, ok := referrals.ParseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or paid"})
			return
		}
		status = s
	}

	var referrerID uint
	if raw := c.Query("referrer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid referrer_id"})
			return
		}
		referrerID = uint(id)
	}

	ctx := c.Request.Context()
	var list []referrals.Commission
	if err := referrals.ListQuery(database.DB.WithContext(ctx), referrerID, status).Limit(maxListed).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load commissions"})
		return
	}
	summary, err := referrals.SummaryFor(ctx, database.DB, referrerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load commissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commissions": list, "summary": summary})
}

// POST /admin/commissions/:id/pay
func PayCommission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid commission id"})
		return
	}

	var req PayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx := c.Request.Context()
	paid, err := referrals.MarkPaid(ctx, database.DB, uint(id), nowFunc(), req.AdminNotes)
	switch {
	case errors.Is(err, referrals.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, referrals.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.L().Error("pay commission", zap.Uint64("commission_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark commission paid"})
		return
	}

	metrics.CommissionCents.WithLabelValues(string(referrals.StatusPaid)).Add(float64(paid.CommissionAmountCents))

	var referrer users.User
	if err := database.DB.Select("id", "email").First(&referrer, paid.ReferrerID).Error; err == nil {
		msg := mail.CommissionPaidMessage(referrer.Email, paid.CommissionAmountCents, "usd", paid.AdminNotes)
		if err := mail.Default.Send(ctx, msg); err != nil {
			// the payout is recorded; a failed notice must not undo it
			logger.L().Warn("commission paid email failed", zap.Uint("commission_id", paid.ID), zap.Error(err))
		}
	}

	logger.L().Info("commission paid",
		zap.Uint("commission_id", paid.ID),
		zap.Uint("referrer_id", paid.ReferrerID),
		zap.Int64("amount_cents", paid.CommissionAmountCents),
	)
	c.JSON(http.StatusOK, paid)
}
