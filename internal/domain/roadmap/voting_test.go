package roadmap

import (
	"testing"
	"time"

	"defi-academy/internal/domain/tiers"

	"github.com/stretchr/testify/assert"
)

var allTiers = []tiers.Tier{tiers.TierNone, tiers.TierMonthly, tiers.TierAnnual, tiers.TierFounding, tiers.TierAdmin}

func TestResolveVoting(t *testing.T) {
	tests := []struct {
		tier tiers.Tier
		want VotingPower
	}{
		{tiers.TierAdmin, VotingPower{CanVote: true, Weight: 3}},
		{tiers.TierFounding, VotingPower{CanVote: true, Weight: 3}},
		{tiers.TierAnnual, VotingPower{CanVote: true, Weight: 1}},
		{tiers.TierMonthly, VotingPower{CanVote: false, Weight: 0}},
		{tiers.TierNone, VotingPower{CanVote: false, Weight: 0}},
		{tiers.Tier(""), VotingPower{CanVote: false, Weight: 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveVoting(tt.tier))
		})
	}
}

func TestResolveVoting_HigherTierNeverLoses(t *testing.T) {
	for _, lo := range allTiers {
		for _, hi := range allTiers {
			if !hi.AtLeast(lo) {
				continue
			}
			l, h := ResolveVoting(lo), ResolveVoting(hi)
			if l.CanVote {
				assert.True(t, h.CanVote, "%s can vote but %s cannot", lo, hi)
			}
			assert.GreaterOrEqual(t, h.Weight, l.Weight, "%s outweighs %s", lo, hi)
		}
	}
}

func TestItem_VotingOpen(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Minute)
	after := now.Add(time.Minute)

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"proposed without deadline", Item{Status: StatusProposed}, true},
		{"in progress without deadline", Item{Status: StatusInProgress}, true},
		{"completed", Item{Status: StatusCompleted}, false},
		{"unknown status", Item{Status: "archived"}, false},
		{"deadline in future", Item{Status: StatusProposed, VotingEndsAt: &after}, true},
		{"deadline exactly now", Item{Status: StatusProposed, VotingEndsAt: &now}, true},
		{"deadline passed", Item{Status: StatusProposed, VotingEndsAt: &before}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.VotingOpen(now))
		})
	}
}

func TestCheckCast(t *testing.T) {
	now := time.Now()
	open := Item{Status: StatusProposed}
	closed := Item{Status: StatusCompleted}
	annual := ResolveVoting(tiers.TierAnnual)

	assert.NoError(t, CheckCast(now, open, annual, VoteYes))
	assert.ErrorIs(t, CheckCast(now, open, annual, VoteType("maybe")), ErrInvalidVoteType)
	assert.ErrorIs(t, CheckCast(now, open, ResolveVoting(tiers.TierMonthly), VoteYes), ErrNotEligible)
	assert.ErrorIs(t, CheckCast(now, closed, annual, VoteNo), ErrVotingClosed)
}

func TestRecount_FoundingYesOnExistingTallies(t *testing.T) {
	item := Item{Status: StatusProposed, YesVotes: 3, NoVotes: 1}
	power := ResolveVoting(tiers.TierFounding)

	next := &Vote{Type: VoteYes, Weight: power.Weight}
	item = Recount(item, nil, next)

	assert.Equal(t, 6, item.YesVotes)
	assert.Equal(t, 1, item.NoVotes)
	assert.Equal(t, 5, item.NetVotes())
}

func TestRecount_ReplaceNotAccumulate(t *testing.T) {
	item := Item{Status: StatusProposed}

	a := &Vote{Type: VoteYes, Weight: 3}
	item = Recount(item, nil, a)
	assert.Equal(t, 3, item.NetVotes())

	b := &Vote{Type: VoteNo, Weight: 3}
	item = Recount(item, a, b)
	assert.Equal(t, 0, item.YesVotes)
	assert.Equal(t, 3, item.NoVotes)
	assert.Equal(t, -3, item.NetVotes())

	item = Recount(item, b, nil)
	assert.Equal(t, 0, item.NetVotes())
}

func TestTally(t *testing.T) {
	yes, no := Tally([]Vote{
		{Type: VoteYes, Weight: 3},
		{Type: VoteYes, Weight: 1},
		{Type: VoteNo, Weight: 1},
		{Type: VoteType("abstain"), Weight: 9},
	})
	assert.Equal(t, 4, yes)
	assert.Equal(t, 1, no)
}

func TestParseVoteType(t *testing.T) {
	v, err := ParseVoteType(" YES ")
	assert.NoError(t, err)
	assert.Equal(t, VoteYes, v)

	_, err = ParseVoteType("")
	assert.ErrorIs(t, err, ErrInvalidVoteType)
}
