package courses

import (
	"time"

	"defi-academy/internal/domain/media"
)

// ---------- requests

type LessonInput struct {
	Title     string `json:"title" binding:"required"`
	SortIndex *int   `json:"sort_index"`
	VideoURL  string `json:"video_url"`
	Body      string `json:"body"`
}

type CreateCourseRequest struct {
	Title             string            `json:"title" binding:"required"`
	Slug              string            `json:"slug"`
	Summary           string            `json:"summary"`
	Level             string            `json:"level"`
	EarlyAccessDate   *time.Time        `json:"early_access_date"`
	PublicReleaseDate *time.Time        `json:"public_release_date"`
	Published         bool              `json:"published"`
	CoverImage        *media.ImageInput `json:"cover_image"`
	Lessons           []LessonInput     `json:"lessons"`
}

// UpdateCourseRequest: nil fields are left unchanged. ClearEarlyAccess and
// ClearPublicRelease null the respective dates.
type UpdateCourseRequest struct {
	Title              *string           `json:"title"`
	Slug               *string           `json:"slug"`
	Summary            *string           `json:"summary"`
	Level              *string           `json:"level"`
	EarlyAccessDate    *time.Time        `json:"early_access_date"`
	PublicReleaseDate  *time.Time        `json:"public_release_date"`
	ClearEarlyAccess   bool              `json:"clear_early_access"`
	ClearPublicRelease bool              `json:"clear_public_release"`
	Published          *bool             `json:"published"`
	CoverImage         *media.ImageInput `json:"cover_image"`
	Lessons            []LessonInput     `json:"lessons"` // replaces all lessons when non-nil
}

// ---------- responses

type AccessDTO struct {
	Phase               string     `json:"phase"`
	IsLocked            bool       `json:"is_locked"`
	IsEarlyAccessPhase  bool       `json:"is_early_access_phase"`
	UnlocksAt           *time.Time `json:"unlocks_at,omitempty"`
	EffectivePublicDate *time.Time `json:"effective_public_date,omitempty"`
}

type LessonDTO struct {
	ID        uint   `json:"id"`
	SortIndex int    `json:"sort_index"`
	Title     string `json:"title"`
	VideoURL  string `json:"video_url,omitempty"`
	Body      string `json:"body,omitempty"`
}

type CourseDTO struct {
	ID                uint         `json:"id"`
	Slug              string       `json:"slug"`
	Title             string       `json:"title"`
	Summary           string       `json:"summary"`
	Level             string       `json:"level"`
	EarlyAccessDate   *time.Time   `json:"early_access_date,omitempty"`
	PublicReleaseDate *time.Time   `json:"public_release_date,omitempty"`
	CoverImage        *media.Image `json:"cover_image,omitempty"`
	Access            AccessDTO    `json:"access"`
	Lessons           []LessonDTO  `json:"lessons,omitempty"`
}
