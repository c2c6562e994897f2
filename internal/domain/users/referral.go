package users

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

/*
	Referral code helpers
	---------------------
	- generating codes
	- persisting them
	- resolving a code back to its owner
	- building share links
*/

var (
	nonCode   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeReferralBase generates a URL-safe base from the user's name.
// Example: "Ada Lovelace" -> "ada-lovelace"
func MakeReferralBase(name, lastname string) string {
	base := strings.ToLower(strings.TrimSpace(name + " " + lastname))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonCode.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "friend"
	}
	if len(base) > 24 {
		base = strings.TrimRight(base[:24], "-")
	}
	return base
}

// EnsureReferralCode ensures user.ReferralCode exists and is persisted.
// Must be called AFTER user has an ID (after Create).
func EnsureReferralCode(db *gorm.DB, user *User) (string, error) {
	if user == nil {
		return "", fmt.Errorf("user is nil")
	}
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}

	if user.ReferralCode != nil && strings.TrimSpace(*user.ReferralCode) != "" {
		return strings.TrimSpace(*user.ReferralCode), nil
	}

	if user.ID == 0 {
		return "", fmt.Errorf("user ID missing (call EnsureReferralCode after Create)")
	}

	// the id suffix keeps codes unique without a lookup
	code := MakeReferralBase(user.Name, user.Lastname) + "-" + strconv.FormatUint(uint64(user.ID), 36)
	user.ReferralCode = &code

	if err := db.
		Model(&User{}).
		Where("id = ?", user.ID).
		Update("referral_code", code).Error; err != nil {
		return "", err
	}

	return code, nil
}

// FindReferrer resolves a referral code. An empty or unknown code yields nil.
func FindReferrer(db *gorm.DB, code string) (*User, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	var u User
	res := db.Where("referral_code = ?", code).Limit(1).Find(&u)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &u, nil
}

// BuildReferralURL builds the share link for a code.
// Example: ("https://academy.example", "ada-lovelace-1f") -> "https://academy.example/join?ref=ada-lovelace-1f"
func BuildReferralURL(appURL, code string) string {
	return strings.TrimRight(appURL, "/") + "/join?ref=" + code
}
