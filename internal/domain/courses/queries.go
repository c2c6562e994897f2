package courses

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("course not found")

func PublishedQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&Course{}).Where("published = ?", true)
}

// FindPublishedBySlug loads a published course with its lessons in order.
func FindPublishedBySlug(db *gorm.DB, slug string) (Course, error) {
	var c Course
	err := PublishedQuery(db).
		Preload("CoverImage").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_index ASC")
		}).
		Where("slug = ?", slug).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Course{}, ErrNotFound
	}
	return c, err
}

// UniqueSlug appends -2, -3, ... until the slug is free.
func UniqueSlug(db *gorm.DB, base string, excludeID uint) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var count int64
		q := db.Model(&Course{}).Where("slug = ?", slug)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}
