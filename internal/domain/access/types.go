package access

import "time"

type Phase string

const (
	PhaseNotYetReleased      Phase = "not_yet_released"
	PhaseEarlyAccessLocked   Phase = "early_access_locked"
	PhaseEarlyAccessUnlocked Phase = "early_access_unlocked"
	PhasePubliclyReleased    Phase = "publicly_released"
)

// Gate is the outcome of the time-window check for one caller.
type Gate struct {
	IsLocked           bool
	IsEarlyAccessPhase bool
	Phase              Phase
	// UnlocksAt is when the caller gains access; nil when already unlocked.
	UnlocksAt *time.Time
}

// Window holds the release dates of gated content (e.g. a course).
type Window struct {
	EarlyAccessDate   *time.Time
	PublicReleaseDate *time.Time
}
