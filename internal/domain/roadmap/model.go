package roadmap

import (
	"errors"
	"strings"
	"time"
)

type Status string

const (
	StatusProposed   Status = "proposed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type VoteType string

const (
	VoteYes VoteType = "yes"
	VoteNo  VoteType = "no"
)

var (
	ErrItemNotFound      = errors.New("roadmap item not found")
	ErrVotingClosed      = errors.New("voting is closed for this item")
	ErrNotEligible       = errors.New("tier is not eligible to vote")
	ErrInvalidVoteType   = errors.New("vote type must be yes or no")
	ErrInvalidStatus     = errors.New("unknown roadmap status")
	ErrInvalidTransition = errors.New("roadmap status transition not allowed")
	ErrNoVote            = errors.New("no vote to remove")
)

type Item struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       Status     `gorm:"type:varchar(20);not null;default:'proposed';index" json:"status"`
	VotingEndsAt *time.Time `json:"voting_ends_at"`

	// Weighted tallies, recomputed from Vote rows on every cast/remove.
	YesVotes int `gorm:"not null;default:0" json:"yes_votes"`
	NoVotes  int `gorm:"not null;default:0" json:"no_votes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "roadmap_items"
}

// Vote: one row per (item, user). Casting again overwrites Type and Weight.
type Vote struct {
	ID     uint     `gorm:"primaryKey" json:"-"`
	ItemID uint     `gorm:"not null;uniqueIndex:idx_roadmap_votes_item_user,priority:1" json:"item_id"`
	UserID uint     `gorm:"not null;uniqueIndex:idx_roadmap_votes_item_user,priority:2;index" json:"user_id"`
	Type   VoteType `gorm:"type:varchar(10);not null" json:"type"`
	Weight int      `gorm:"not null" json:"weight"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Vote) TableName() string {
	return "roadmap_votes"
}

func (i Item) NetVotes() int {
	return i.YesVotes - i.NoVotes
}

func ParseVoteType(s string) (VoteType, error) {
	switch VoteType(strings.ToLower(strings.TrimSpace(s))) {
	case VoteYes:
		return VoteYes, nil
	case VoteNo:
		return VoteNo, nil
	}
	return "", ErrInvalidVoteType
}

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusProposed:
		return StatusProposed, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", ErrInvalidStatus
}
