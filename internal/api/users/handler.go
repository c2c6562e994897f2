package users

import (
	"net/http"
	"time"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var nowFunc = time.Now

// GET /me
func GetCurrentUser(c *gin.Context) {
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

	// accounts created before referral codes existed get one lazily
	if _, err := users.EnsureReferralCode(database.DB, &user); err != nil {
		logger.L().Warn("me: referral code", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	now := nowFunc()
	surface := config.Surface()
	policy := surface.ComputePolicy(user.Subscriber(now))

	resp := MeResponse{
		User: UserDTO{
			ID:               user.ID,
			Email:            user.Email,
			Name:             user.Name,
			Lastname:         user.Lastname,
			Role:             user.Role,
			IsVerified:       user.IsVerified,
			IsFoundingMember: user.IsFoundingMember,
		},
		Billing: BillingDTO{
			Plan:         BuildPlanDTO(user.Plan),
			Subscription: BuildSubscriptionDTO(now, user),
		},
		Access:   BuildAccessDTO(surface, policy),
		Referral: BuildReferralDTO(config.APP_URL, user),
	}

	c.JSON(http.StatusOK, resp)
}
