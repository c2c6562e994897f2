package access

import (
	"time"

	"defi-academy/internal/domain/tiers"
)

// EffectivePublicDate returns the explicit public release date, or the early
// access date plus earlyAccessDays. ok is false when there is no early access
// date at all.
func EffectivePublicDate(w Window, earlyAccessDays int) (t time.Time, ok bool) {
	if w.EarlyAccessDate == nil {
		return time.Time{}, false
	}
	if w.PublicReleaseDate != nil {
		return *w.PublicReleaseDate, true
	}
	return w.EarlyAccessDate.AddDate(0, 0, earlyAccessDays), true
}

// ResolveAccess decides whether tier can open content with window w at now.
//
// No early access date, or a public date before the early access date, means
// public to everyone. Before the early access date nobody gets in. During
// early access only annual, founding and admin do.
func ResolveAccess(now time.Time, tier tiers.Tier, w Window, earlyAccessDays int) Gate {
	public := Gate{Phase: PhasePubliclyReleased}

	publicAt, ok := EffectivePublicDate(w, earlyAccessDays)
	if !ok {
		return public
	}
	earlyAt := *w.EarlyAccessDate
	if publicAt.Before(earlyAt) {
		return public
	}

	if now.Before(earlyAt) {
		unlocksAt := earlyAt
		if !tier.IsAnnualOrAbove() {
			unlocksAt = publicAt
		}
		return Gate{IsLocked: true, Phase: PhaseNotYetReleased, UnlocksAt: &unlocksAt}
	}

	if now.Before(publicAt) {
		if tier.IsAnnualOrAbove() {
			return Gate{IsEarlyAccessPhase: true, Phase: PhaseEarlyAccessUnlocked}
		}
		return Gate{
			IsLocked:           true,
			IsEarlyAccessPhase: true,
			Phase:              PhaseEarlyAccessLocked,
			UnlocksAt:          &publicAt,
		}
	}

	return public
}
