package referrals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"defi-academy/internal/domain/tiers"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record inserts c unless a commission for the same purchase already exists.
// created is false on a replay; c is then loaded with the stored row.
//
// pass db in, do NOT import defi-academy/database here (avoids import cycle).
func Record(ctx context.Context, db *gorm.DB, c *Commission) (created bool, err error) {
	if c == nil {
		return false, fmt.Errorf("commission is nil")
	}
	if strings.TrimSpace(c.PurchaseRef) == "" {
		return false, fmt.Errorf("commission missing purchase_ref")
	}
	if pt := tiers.ParsePlanType(c.PlanType); pt == tiers.PlanNone {
		return false, ErrInvalidPlanType
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "purchase_ref"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return false, fmt.Errorf("failed to record commission: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var existing Commission
	if err := db.WithContext(ctx).
		Where("purchase_ref = ?", c.PurchaseRef).
		First(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to load existing commission: %w", err)
	}
	*c = existing
	return false, nil
}

// MarkPaid performs the one-way pending -> paid transition. The conditional
// update keeps two concurrent admin clicks from both succeeding.
func MarkPaid(ctx context.Context, db *gorm.DB, id uint, now time.Time, notes string) (Commission, error) {
	var c Commission
	if err := db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Commission{}, ErrNotFound
		}
		return Commission{}, err
	}

	if err := c.MarkPaid(now, notes); err != nil {
		return c, err
	}

	res := db.WithContext(ctx).
		Model(&Commission{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":      c.Status,
			"paid_at":     c.PaidAt,
			"admin_notes": c.AdminNotes,
		})
	if res.Error != nil {
		return Commission{}, fmt.Errorf("failed to mark commission paid: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return Commission{}, ErrAlreadyPaid
	}
	return c, nil
}

type Summary struct {
	Count        int64 `json:"count"`
	PendingCents int64 `json:"pending_cents"`
	PaidCents    int64 `json:"paid_cents"`
}

// SummaryFor aggregates commissions. referrerID 0 means all referrers.
func SummaryFor(ctx context.Context, db *gorm.DB, referrerID uint) (Summary, error) {
	q := db.WithContext(ctx).Model(&Commission{})
	if referrerID != 0 {
		q = q.Where("referrer_id = ?", referrerID)
	}

	var s Summary
	err := q.Select(
		"COUNT(*) AS count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN commission_amount_cents ELSE 0 END), 0) AS pending_cents, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN commission_amount_cents ELSE 0 END), 0) AS paid_cents",
		StatusPending, StatusPaid,
	).Scan(&s).Error
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize commissions: %w", err)
	}
	return s, nil
}

func ListQuery(db *gorm.DB, referrerID uint, status Status) *gorm.DB {
	q := db.Model(&Commission{})
	if referrerID != 0 {
		q = q.Where("referrer_id = ?", referrerID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q.Order("created_at DESC")
}
