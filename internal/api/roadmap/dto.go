package roadmap

import (
	"time"

	"defi-academy/internal/domain/roadmap"
)

type CastVoteRequest struct {
	Type string `json:"type" binding:"required"`
}

type CreateItemRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	VotingEndsAt *time.Time `json:"voting_ends_at"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ItemDTO struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	VotingEndsAt *time.Time `json:"voting_ends_at"`
	VotingOpen   bool       `json:"voting_open"`
	YesVotes     int        `json:"yes_votes"`
	NoVotes      int        `json:"no_votes"`
	NetVotes     int        `json:"net_votes"`
	UserVote     *string    `json:"user_vote"`
}

type ListResponse struct {
	Items  []ItemDTO           `json:"items"`
	Voting roadmap.VotingPower `json:"voting"`
}

func toItemDTO(now time.Time, item roadmap.Item, vote *roadmap.Vote) ItemDTO {
	dto := ItemDTO{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Status:       string(item.Status),
		VotingEndsAt: item.VotingEndsAt,
		VotingOpen:   item.VotingOpen(now),
		YesVotes:     item.YesVotes,
		NoVotes:      item.NoVotes,
		NetVotes:     item.NetVotes(),
	}
	if vote != nil {
		t := string(vote.Type)
		dto.UserVote = &t
	}
	return dto
}
