package roadmap

import "time"

var allowedTransitions = map[Status][]Status{
	StatusProposed:   {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
}

// Transition allows forward moves only: proposed -> in_progress -> completed.
func Transition(from, to Status) error {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

// CloseVoting ends the voting window at now. An already earlier end is kept.
func (i *Item) CloseVoting(now time.Time) {
	if i.VotingEndsAt != nil && !i.VotingEndsAt.After(now) {
		return
	}
	end := now
	i.VotingEndsAt = &end
}
