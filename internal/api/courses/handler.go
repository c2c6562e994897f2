package courses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/courses"
	"defi-academy/internal/domain/media"
	"defi-academy/internal/domain/tiers"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var nowFunc = time.Now

// callerSubscriber returns the subscriber snapshot of the (optional) caller.
// Anonymous or unknown callers are tier none.
func callerSubscriber(c *gin.Context, now time.Time) tiers.Subscriber {
	userID := c.GetUint("user_id")
	if userID == 0 {
		return tiers.Subscriber{}
	}
	var user users.User
	if err := database.DB.Preload("Plan").First(&user, userID).Error; err != nil {
		return tiers.Subscriber{}
	}
	return user.Subscriber(now)
}

// GET /courses
func ListCourses(c *gin.Context) {
	var list []courses.Course
	if err := courses.PublishedQuery(database.DB).
		Preload("CoverImage").
		Order("COALESCE(early_access_date, created_at) DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}

	now := nowFunc()
	sub := callerSubscriber(c, now)
	surface := config.Surface()
	days := surface.Rules().EarlyAccessWindowDays

	out := make([]CourseDTO, 0, len(list))
	for _, course := range list {
		g := surface.CourseAccess(now, sub, course.Window())
		out = append(out, toCourseDTO(course, g, days, false))
	}
	c.JSON(http.StatusOK, gin.H{"courses": out})
}

// GET /courses/:slug
func GetCourse(c *gin.Context) {
	course, err := courses.FindPublishedBySlug(database.DB, c.Param("slug"))
	if err != nil {
		if errors.Is(err, courses.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course"})
		return
	}

	now := nowFunc()
	surface := config.Surface()
	g := surface.CourseAccess(now, callerSubscriber(c, now), course.Window())
	recordGate(g)

	c.JSON(http.StatusOK, toCourseDTO(course, g, surface.Rules().EarlyAccessWindowDays, true))
}

// POST /admin/courses
func CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level := strings.TrimSpace(req.Level)
	if level == "" {
		level = courses.LevelBeginner
	}
	if !courses.ValidLevel(level) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level"})
		return
	}

	now := nowFunc()
	course := courses.Course{
		Title:             strings.TrimSpace(req.Title),
		Summary:           req.Summary,
		Level:             level,
		EarlyAccessDate:   req.EarlyAccessDate,
		PublicReleaseDate: req.PublicReleaseDate,
		Published:         req.Published,
		Lessons:           lessonsFromInput(req.Lessons, now),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		base := req.Slug
		if strings.TrimSpace(base) == "" {
			base = req.Title
		}
		slug, err := courses.UniqueSlug(tx, courses.MakeSlug(base), 0)
		if err != nil {
			return err
		}
		course.Slug = slug

		if req.CoverImage != nil {
			if course.CoverImageID, err = media.Upsert(tx, nil, *req.CoverImage); err != nil {
				return err
			}
		}
		return tx.Create(&course).Error
	})
	if err != nil {
		logger.L().Error("create course", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": course.ID, "slug": course.Slug})
}

// PUT /admin/courses/:id
func UpdateCourse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Level != nil && !courses.ValidLevel(*req.Level) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level"})
		return
	}

	now := nowFunc()
	var course courses.Course
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&course, id).Error; err != nil {
			return err
		}

		if req.Title != nil {
			course.Title = strings.TrimSpace(*req.Title)
		}
		if req.Slug != nil {
			slug, err := courses.UniqueSlug(tx, courses.MakeSlug(*req.Slug), course.ID)
			if err != nil {
				return err
			}
			course.Slug = slug
		}
		if req.Summary != nil {
			course.Summary = *req.Summary
		}
		if req.Level != nil {
			course.Level = *req.Level
		}
		if req.EarlyAccessDate != nil {
			course.EarlyAccessDate = req.EarlyAccessDate
		}
		if req.ClearEarlyAccess {
			course.EarlyAccessDate = nil
		}
		if req.PublicReleaseDate != nil {
			course.PublicReleaseDate = req.PublicReleaseDate
		}
		if req.ClearPublicRelease {
			course.PublicReleaseDate = nil
		}
		if req.Published != nil {
			course.Published = *req.Published
		}
		if req.CoverImage != nil {
			imgID, err := media.Upsert(tx, course.CoverImageID, *req.CoverImage)
			if err != nil {
				return err
			}
			course.CoverImageID = imgID
		}
		course.UpdatedAt = now

		if err := tx.Omit("Lessons", "CoverImage").Save(&course).Error; err != nil {
			return err
		}

		if req.Lessons != nil {
			if err := tx.Where("course_id = ?", course.ID).Delete(&courses.Lesson{}).Error; err != nil {
				return err
			}
			lessons := lessonsFromInput(req.Lessons, now)
			for i := range lessons {
				lessons[i].CourseID = course.ID
			}
			if len(lessons) > 0 {
				if err := tx.Create(&lessons).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		logger.L().Error("update course", zap.Uint64("course_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": course.ID, "slug": course.Slug})
}
