package access

import (
	"testing"
	"time"

	"defi-academy/internal/domain/tiers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTiers = []tiers.Tier{tiers.TierNone, tiers.TierMonthly, tiers.TierAnnual, tiers.TierFounding, tiers.TierAdmin}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestResolveAccess_EarlyAccessScenario(t *testing.T) {
	w := Window{EarlyAccessDate: ptr(day(2025, 1, 1))}

	jan5 := day(2025, 1, 5)
	annual := ResolveAccess(jan5, tiers.TierAnnual, w, 14)
	assert.False(t, annual.IsLocked)
	assert.True(t, annual.IsEarlyAccessPhase)
	assert.Equal(t, PhaseEarlyAccessUnlocked, annual.Phase)

	monthly := ResolveAccess(jan5, tiers.TierMonthly, w, 14)
	assert.True(t, monthly.IsLocked)
	assert.True(t, monthly.IsEarlyAccessPhase)
	assert.Equal(t, PhaseEarlyAccessLocked, monthly.Phase)
	require.NotNil(t, monthly.UnlocksAt)
	assert.Equal(t, day(2025, 1, 15), *monthly.UnlocksAt)

	jan16 := day(2025, 1, 16)
	later := ResolveAccess(jan16, tiers.TierMonthly, w, 14)
	assert.False(t, later.IsLocked)
	assert.False(t, later.IsEarlyAccessPhase)
	assert.Equal(t, PhasePubliclyReleased, later.Phase)
}

func TestResolveAccess_NoEarlyAccessDateIsAlwaysPublic(t *testing.T) {
	public := day(2030, 1, 1)
	windows := []Window{
		{},
		{PublicReleaseDate: &public},
	}
	for _, w := range windows {
		for _, now := range []time.Time{day(1999, 1, 1), day(2025, 1, 1), day(2040, 1, 1)} {
			for _, tier := range allTiers {
				g := ResolveAccess(now, tier, w, 14)
				assert.False(t, g.IsLocked)
				assert.False(t, g.IsEarlyAccessPhase)
				assert.Equal(t, PhasePubliclyReleased, g.Phase)
			}
		}
	}
}

func TestResolveAccess_BeforeEarlyAccessNobodyGetsIn(t *testing.T) {
	w := Window{EarlyAccessDate: ptr(day(2025, 1, 1))}
	now := day(2024, 12, 31)

	for _, tier := range allTiers {
		g := ResolveAccess(now, tier, w, 14)
		assert.True(t, g.IsLocked, tier)
		assert.False(t, g.IsEarlyAccessPhase, tier)
		assert.Equal(t, PhaseNotYetReleased, g.Phase, tier)
	}

	admin := ResolveAccess(now, tiers.TierAdmin, w, 14)
	assert.Equal(t, day(2025, 1, 1), *admin.UnlocksAt)
	none := ResolveAccess(now, tiers.TierNone, w, 14)
	assert.Equal(t, day(2025, 1, 15), *none.UnlocksAt)
}

func TestResolveAccess_ExplicitPublicDate(t *testing.T) {
	w := Window{
		EarlyAccessDate:   ptr(day(2025, 3, 1)),
		PublicReleaseDate: ptr(day(2025, 3, 4)),
	}

	assert.True(t, ResolveAccess(day(2025, 3, 3), tiers.TierMonthly, w, 14).IsLocked)
	assert.False(t, ResolveAccess(day(2025, 3, 4), tiers.TierMonthly, w, 14).IsLocked)

	// boundaries: the early access instant itself opens early access
	g := ResolveAccess(day(2025, 3, 1), tiers.TierAnnual, w, 14)
	assert.False(t, g.IsLocked)
	assert.True(t, g.IsEarlyAccessPhase)
}

func TestResolveAccess_MalformedWindowFailsOpen(t *testing.T) {
	w := Window{
		EarlyAccessDate:   ptr(day(2025, 3, 10)),
		PublicReleaseDate: ptr(day(2025, 3, 1)),
	}

	for _, now := range []time.Time{day(2025, 2, 1), day(2025, 3, 5), day(2025, 4, 1)} {
		for _, tier := range allTiers {
			g := ResolveAccess(now, tier, w, 14)
			assert.False(t, g.IsLocked)
			assert.Equal(t, PhasePubliclyReleased, g.Phase)
		}
	}
}

func TestResolveAccess_ZeroDayWindow(t *testing.T) {
	w := Window{EarlyAccessDate: ptr(day(2025, 1, 1))}

	assert.True(t, ResolveAccess(day(2024, 12, 31), tiers.TierMonthly, w, 0).IsLocked)
	g := ResolveAccess(day(2025, 1, 1), tiers.TierMonthly, w, 0)
	assert.False(t, g.IsLocked)
	assert.Equal(t, PhasePubliclyReleased, g.Phase)
}

func TestResolveAccess_UnlockIsMonotonic(t *testing.T) {
	w := Window{EarlyAccessDate: ptr(day(2025, 1, 1))}
	start := day(2024, 12, 20)

	for _, tier := range allTiers {
		unlocked := false
		transitions := 0
		prev := Phase("")
		for h := 0; h < 24*40; h++ {
			now := start.Add(time.Duration(h) * time.Hour)
			g := ResolveAccess(now, tier, w, 14)

			if unlocked {
				assert.False(t, g.IsLocked, "%s relocked at %s", tier, now)
			}
			if !g.IsLocked {
				unlocked = true
			}
			if prev != "" && g.Phase != prev {
				transitions++
			}
			prev = g.Phase
		}
		assert.True(t, unlocked, tier)
		assert.LessOrEqual(t, transitions, 2, tier)
	}
}

func TestResolveAccess_HigherTierNeverLoses(t *testing.T) {
	w := Window{EarlyAccessDate: ptr(day(2025, 1, 1))}
	times := []time.Time{day(2024, 12, 1), day(2025, 1, 1), day(2025, 1, 10), day(2025, 1, 15), day(2025, 2, 1)}

	for _, now := range times {
		for _, lo := range allTiers {
			for _, hi := range allTiers {
				if !hi.AtLeast(lo) {
					continue
				}
				if !ResolveAccess(now, lo, w, 14).IsLocked {
					assert.False(t, ResolveAccess(now, hi, w, 14).IsLocked, "%s open but %s locked at %s", lo, hi, now)
				}
			}
		}
	}
}

func TestEffectivePublicDate(t *testing.T) {
	_, ok := EffectivePublicDate(Window{}, 14)
	assert.False(t, ok)

	got, ok := EffectivePublicDate(Window{EarlyAccessDate: ptr(day(2025, 1, 1))}, 14)
	assert.True(t, ok)
	assert.Equal(t, day(2025, 1, 15), got)

	got, ok = EffectivePublicDate(Window{EarlyAccessDate: ptr(day(2025, 1, 1)), PublicReleaseDate: ptr(day(2025, 2, 1))}, 14)
	assert.True(t, ok)
	assert.Equal(t, day(2025, 2, 1), got)
}
