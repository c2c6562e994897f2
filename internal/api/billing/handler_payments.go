package billing

import (
	"net/http"
	"time"

	"defi-academy/database"
	"defi-academy/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

type PaymentDTO struct {
	ID          uint      `json:"id"`
	PlanName    string    `json:"plan_name,omitempty"`
	PlanType    string    `json:"plan_type,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	NetCents    int64     `json:"net_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	ReceiptURL  *string   `json:"receipt_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToPaymentDTO(p billing.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:          p.ID,
		AmountCents: p.AmountCents,
		NetCents:    p.NetCents,
		Currency:    p.Currency,
		Status:      p.Status,
		ReceiptURL:  p.ReceiptURL,
		CreatedAt:   p.CreatedAt,
	}
	if p.Plan != nil {
		dto.PlanName = p.Plan.Name
		dto.PlanType = p.Plan.Type
	}
	return dto
}

// GET /payments
func GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	out := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToPaymentDTO(p))
	}
	c.JSON(http.StatusOK, out)
}
