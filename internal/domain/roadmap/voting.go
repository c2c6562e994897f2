package roadmap

import (
	"time"

	"defi-academy/internal/domain/tiers"
)

type VotingPower struct {
	CanVote bool `json:"can_vote"`
	Weight  int  `json:"weight"`
}

// ResolveVoting maps a tier to its vote weight.
func ResolveVoting(t tiers.Tier) VotingPower {
	switch t {
	case tiers.TierAdmin, tiers.TierFounding:
		return VotingPower{CanVote: true, Weight: 3}
	case tiers.TierAnnual:
		return VotingPower{CanVote: true, Weight: 1}
	default:
		return VotingPower{CanVote: false, Weight: 0}
	}
}

// VotingOpen: status proposed or in_progress, and now not past VotingEndsAt.
func (i Item) VotingOpen(now time.Time) bool {
	if i.Status != StatusProposed && i.Status != StatusInProgress {
		return false
	}
	if i.VotingEndsAt != nil && now.After(*i.VotingEndsAt) {
		return false
	}
	return true
}

// CheckCast validates a cast against the caller's power and the item's window.
// Callers run it immediately before writing.
func CheckCast(now time.Time, item Item, power VotingPower, voteType VoteType) error {
	if voteType != VoteYes && voteType != VoteNo {
		return ErrInvalidVoteType
	}
	if !power.CanVote || power.Weight <= 0 {
		return ErrNotEligible
	}
	if !item.VotingOpen(now) {
		return ErrVotingClosed
	}
	return nil
}

// Recount applies a vote change to the item's tallies. prior is the caller's
// existing vote (nil if none), next the replacement (nil on removal).
func Recount(item Item, prior, next *Vote) Item {
	if prior != nil {
		item = addWeight(item, prior.Type, -prior.Weight)
	}
	if next != nil {
		item = addWeight(item, next.Type, next.Weight)
	}
	return item
}

func addWeight(item Item, t VoteType, w int) Item {
	switch t {
	case VoteYes:
		item.YesVotes += w
	case VoteNo:
		item.NoVotes += w
	}
	if item.YesVotes < 0 {
		item.YesVotes = 0
	}
	if item.NoVotes < 0 {
		item.NoVotes = 0
	}
	return item
}

// Tally sums weights per vote type.
func Tally(votes []Vote) (yes, no int) {
	for _, v := range votes {
		switch v.Type {
		case VoteYes:
			yes += v.Weight
		case VoteNo:
			no += v.Weight
		}
	}
	return yes, no
}
