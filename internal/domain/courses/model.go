package courses

import (
	"time"

	"defi-academy/internal/domain/access"
	"defi-academy/internal/domain/media"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Slug    string `gorm:"not null;uniqueIndex:idx_courses_slug" json:"slug"`
	Title   string `gorm:"not null" json:"title"`
	Summary string `json:"summary"`
	Level   string `gorm:"type:varchar(20);not null;default:'beginner'" json:"level"`

	EarlyAccessDate   *time.Time `gorm:"column:early_access_date" json:"early_access_date,omitempty"`
	PublicReleaseDate *time.Time `gorm:"column:public_release_date" json:"public_release_date,omitempty"`

	Published bool `gorm:"not null;default:false;index" json:"published"`

	CoverImageID *string      `gorm:"type:varchar(36);index" json:"-"`
	CoverImage   *media.Image `gorm:"foreignKey:CoverImageID" json:"cover_image,omitempty"`

	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"lessons,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Lesson struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CourseID  uint   `gorm:"not null;index" json:"-"`
	SortIndex int    `gorm:"not null;default:0;index" json:"sort_index"`
	Title     string `gorm:"not null" json:"title"`
	VideoURL  string `json:"video_url,omitempty"`
	Body      string `gorm:"type:text" json:"body,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Window exposes the release dates to the access gate.
func (c Course) Window() access.Window {
	return access.Window{
		EarlyAccessDate:   c.EarlyAccessDate,
		PublicReleaseDate: c.PublicReleaseDate,
	}
}

func ValidLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}
