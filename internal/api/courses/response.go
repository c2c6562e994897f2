package courses

import (
	"strconv"
	"time"

	"defi-academy/internal/domain/access"
	"defi-academy/internal/domain/courses"
	"defi-academy/internal/metrics"
)

func toAccessDTO(g access.Gate, w access.Window, earlyAccessDays int) AccessDTO {
	dto := AccessDTO{
		Phase:              string(g.Phase),
		IsLocked:           g.IsLocked,
		IsEarlyAccessPhase: g.IsEarlyAccessPhase,
		UnlocksAt:          g.UnlocksAt,
	}
	if t, ok := access.EffectivePublicDate(w, earlyAccessDays); ok {
		dto.EffectivePublicDate = &t
	}
	return dto
}

// toCourseDTO renders c for a caller whose gate is g. Locked courses keep
// their outline (lesson titles) but never expose lesson content.
func toCourseDTO(c courses.Course, g access.Gate, earlyAccessDays int, withLessons bool) CourseDTO {
	dto := CourseDTO{
		ID:                c.ID,
		Slug:              c.Slug,
		Title:             c.Title,
		Summary:           c.Summary,
		Level:             c.Level,
		EarlyAccessDate:   c.EarlyAccessDate,
		PublicReleaseDate: c.PublicReleaseDate,
		CoverImage:        c.CoverImage,
		Access:            toAccessDTO(g, c.Window(), earlyAccessDays),
	}
	if !withLessons {
		return dto
	}

	dto.Lessons = make([]LessonDTO, 0, len(c.Lessons))
	for _, l := range c.Lessons {
		ld := LessonDTO{ID: l.ID, SortIndex: l.SortIndex, Title: l.Title}
		if !g.IsLocked {
			ld.VideoURL = l.VideoURL
			ld.Body = l.Body
		}
		dto.Lessons = append(dto.Lessons, ld)
	}
	return dto
}

func recordGate(g access.Gate) {
	metrics.GateDecisions.WithLabelValues(string(g.Phase), strconv.FormatBool(g.IsLocked)).Inc()
}

func lessonsFromInput(in []LessonInput, now time.Time) []courses.Lesson {
	out := make([]courses.Lesson, 0, len(in))
	for i, l := range in {
		idx := i
		if l.SortIndex != nil {
			idx = *l.SortIndex
		}
		out = append(out, courses.Lesson{
			SortIndex: idx,
			Title:     l.Title,
			VideoURL:  l.VideoURL,
			Body:      l.Body,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}
