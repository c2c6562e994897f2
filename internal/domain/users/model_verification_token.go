package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TokenEmailVerification = "email_verification"
	TokenPasswordReset     = "password_reset"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_verification_tokens_user_type,priority:1"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Type      string `gorm:"uniqueIndex:idx_verification_tokens_user_type,priority:2"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IssueToken replaces any previous token of the same type for the user.
func IssueToken(db *gorm.DB, userID uint, tokenType string, ttl time.Duration, now time.Time) (VerificationToken, error) {
	tok := VerificationToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		Type:      tokenType,
		ExpiresAt: now.Add(ttl),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND type = ?", userID, tokenType).Delete(&VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&tok).Error
	})
	return tok, err
}

// ConsumeToken validates and deletes a token, returning its owner id.
func ConsumeToken(db *gorm.DB, token, tokenType string, now time.Time) (uint, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	var tok VerificationToken
	if err := db.Where("token = ? AND type = ?", token, tokenType).First(&tok).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidToken
		}
		return 0, err
	}
	if tok.ExpiresAt.Before(now) {
		_ = db.Delete(&tok).Error
		return 0, ErrInvalidToken
	}
	if err := db.Delete(&tok).Error; err != nil {
		return 0, err
	}
	return tok.UserID, nil
}
