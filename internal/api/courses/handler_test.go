package courses

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/access"
	"defi-academy/internal/domain/courses"
	"defi-academy/internal/domain/media"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&plans.Plan{}, &users.User{}, &media.Image{}, &courses.Course{}, &courses.Lesson{}))

	prev := database.DB
	database.DB = db
	rules := access.DefaultRules()
	config.EARLY_ACCESS_WINDOW_DAYS = rules.EarlyAccessWindowDays
	config.COMMISSION_RATE_MONTHLY = rules.CommissionRates.Monthly
	config.COMMISSION_RATE_ANNUAL = rules.CommissionRates.Annual
	t.Cleanup(func() {
		database.DB = prev
		nowFunc = time.Now
	})
}

func router() *gin.Engine {
	r := gin.New()
	asUser := func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader("X-User"), 10, 64); err == nil {
			c.Set("user_id", uint(id))
		}
	}
	r.GET("/courses", asUser, ListCourses)
	r.GET("/courses/:slug", asUser, GetCourse)
	r.POST("/admin/courses", CreateCourse)
	r.PUT("/admin/courses/:id", UpdateCourse)
	return r
}

func subscriber(t *testing.T, email, planType string) users.User {
	plan := plans.Plan{Name: planType, StripePriceID: "price_" + planType, Type: planType}
	require.NoError(t, database.DB.Where(plans.Plan{StripePriceID: plan.StripePriceID}).FirstOrCreate(&plan).Error)

	sub, status := "sub_"+email, "active"
	u := users.User{Email: email, PlanID: &plan.ID, SubscriptionId: &sub, StripeSubscriptionStatus: &status}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func getCourse(t *testing.T, r http.Handler, slug string, userID uint) (int, CourseDTO) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses/"+slug, nil)
	if userID != 0 {
		req.Header.Set("X-User", strconv.FormatUint(uint64(userID), 10))
	}
	r.ServeHTTP(w, req)

	var dto CourseDTO
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	}
	return w.Code, dto
}

func TestEarlyAccessScenario(t *testing.T) {
	setup(t)
	r := router()

	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	course := courses.Course{
		Slug: "amm-deep-dive", Title: "AMM deep dive", Published: true, EarlyAccessDate: &early,
		Lessons: []courses.Lesson{{Title: "Constant product", Body: "x*y=k", SortIndex: 1}},
	}
	require.NoError(t, database.DB.Create(&course).Error)

	annual := subscriber(t, "annual@example.com", "annual")
	monthly := subscriber(t, "monthly@example.com", "monthly")

	nowFunc = func() time.Time { return time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC) }

	code, dto := getCourse(t, r, "amm-deep-dive", annual.ID)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(access.PhaseEarlyAccessUnlocked), dto.Access.Phase)
	assert.False(t, dto.Access.IsLocked)
	require.Len(t, dto.Lessons, 1)
	assert.Equal(t, "x*y=k", dto.Lessons[0].Body)

	_, dto = getCourse(t, r, "amm-deep-dive", monthly.ID)
	assert.Equal(t, string(access.PhaseEarlyAccessLocked), dto.Access.Phase)
	assert.True(t, dto.Access.IsLocked)
	require.NotNil(t, dto.Access.UnlocksAt)
	assert.True(t, dto.Access.UnlocksAt.Equal(early.AddDate(0, 0, 14)))
	require.Len(t, dto.Lessons, 1)
	assert.Equal(t, "Constant product", dto.Lessons[0].Title)
	assert.Empty(t, dto.Lessons[0].Body)

	nowFunc = func() time.Time { return time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC) }
	_, dto = getCourse(t, r, "amm-deep-dive", monthly.ID)
	assert.Equal(t, string(access.PhasePubliclyReleased), dto.Access.Phase)
	assert.False(t, dto.Access.IsLocked)
	assert.Equal(t, "x*y=k", dto.Lessons[0].Body)

	_, dto = getCourse(t, r, "amm-deep-dive", 0)
	assert.False(t, dto.Access.IsLocked)
}

func TestNotYetReleasedLocksEveryone(t *testing.T) {
	setup(t)
	r := router()

	early := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, database.DB.Create(&courses.Course{Slug: "soon", Title: "Soon", Published: true, EarlyAccessDate: &early}).Error)

	admin := users.User{Email: "admin@example.com", Role: users.RoleAdmin}
	require.NoError(t, database.DB.Create(&admin).Error)

	nowFunc = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	_, dto := getCourse(t, r, "soon", admin.ID)
	assert.Equal(t, string(access.PhaseNotYetReleased), dto.Access.Phase)
	assert.True(t, dto.Access.IsLocked)
}

func TestListCoursesHidesDraftsAndLessons(t *testing.T) {
	setup(t)
	r := router()

	require.NoError(t, database.DB.Create(&courses.Course{Slug: "open", Title: "Open", Published: true,
		Lessons: []courses.Lesson{{Title: "L1", Body: "secret"}}}).Error)
	require.NoError(t, database.DB.Create(&courses.Course{Slug: "draft", Title: "Draft"}).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Courses []CourseDTO `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, "open", resp.Courses[0].Slug)
	assert.Empty(t, resp.Courses[0].Lessons)
	assert.Equal(t, string(access.PhasePubliclyReleased), resp.Courses[0].Access.Phase)

	code, _ := getCourse(t, r, "draft", 0)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminCreateAndUpdateCourse(t *testing.T) {
	setup(t)
	r := router()

	body, _ := json.Marshal(gin.H{
		"title":             "Lending Basics",
		"level":             "beginner",
		"published":         true,
		"early_access_date": "2025-01-01T00:00:00Z",
		"cover_image":       gin.H{"original_path": "covers/lending.png"},
		"lessons":           []gin.H{{"title": "Intro", "body": "hello"}},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/courses", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID   uint   `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "lending-basics", created.Slug)

	body, _ = json.Marshal(gin.H{
		"clear_early_access": true,
		"lessons":            []gin.H{{"title": "One"}, {"title": "Two"}},
	})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/courses/"+strconv.FormatUint(uint64(created.ID), 10), bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored courses.Course
	require.NoError(t, database.DB.Preload("Lessons").Preload("CoverImage").First(&stored, created.ID).Error)
	assert.Nil(t, stored.EarlyAccessDate)
	assert.Len(t, stored.Lessons, 2)
	require.NotNil(t, stored.CoverImage)
	assert.Equal(t, "covers/lending.png", stored.CoverImage.OriginalPath)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/courses/999", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/courses", bytes.NewReader([]byte(`{"title":"X","level":"guru"}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
