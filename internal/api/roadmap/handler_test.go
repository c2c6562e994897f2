package roadmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/access"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/roadmap"
	"defi-academy/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&plans.Plan{}, &users.User{}, &roadmap.Item{}, &roadmap.Vote{}))

	prev := database.DB
	database.DB = db
	rules := access.DefaultRules()
	config.EARLY_ACCESS_WINDOW_DAYS = rules.EarlyAccessWindowDays
	config.COMMISSION_RATE_MONTHLY = rules.CommissionRates.Monthly
	config.COMMISSION_RATE_ANNUAL = rules.CommissionRates.Annual
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() {
		database.DB = prev
		nowFunc = time.Now
	})

	r := gin.New()
	asUser := func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader("X-User"), 10, 64); err == nil {
			c.Set("user_id", uint(id))
		}
	}
	r.GET("/roadmap", asUser, ListItems)
	r.POST("/roadmap/:id/vote", asUser, CastVote)
	r.DELETE("/roadmap/:id/vote", asUser, RemoveVote)
	r.POST("/admin/roadmap", CreateItem)
	r.POST("/admin/roadmap/:id/status", SetStatus)
	r.POST("/admin/roadmap/:id/close-voting", CloseVoting)
	return r
}

func newUser(t *testing.T, email string, founding bool, planType string) users.User {
	u := users.User{Email: email, IsFoundingMember: founding}
	if planType != "" {
		plan := plans.Plan{Name: planType, StripePriceID: "price_" + planType, Type: planType}
		require.NoError(t, database.DB.Where(plans.Plan{StripePriceID: plan.StripePriceID}).FirstOrCreate(&plan).Error)
		sub, status := "sub_"+email, "active"
		u.PlanID, u.SubscriptionId, u.StripeSubscriptionStatus = &plan.ID, &sub, &status
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func do(r http.Handler, method, path string, userID uint, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User", strconv.FormatUint(uint64(userID), 10))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeItem(t *testing.T, w *httptest.ResponseRecorder) ItemDTO {
	var dto ItemDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	return dto
}

func TestFoundingVoteScenario(t *testing.T) {
	r := setup(t)

	item := roadmap.Item{Title: "Perps module", Status: roadmap.StatusProposed, YesVotes: 3, NoVotes: 1}
	require.NoError(t, database.DB.Create(&item).Error)
	// seed rows so the tallies recompute to 3/1
	require.NoError(t, database.DB.Create(&[]roadmap.Vote{
		{ItemID: item.ID, UserID: 100, Type: roadmap.VoteYes, Weight: 3},
		{ItemID: item.ID, UserID: 101, Type: roadmap.VoteNo, Weight: 1},
	}).Error)

	founder := newUser(t, "founder@example.com", true, "")
	path := fmt.Sprintf("/roadmap/%d/vote", item.ID)

	w := do(r, http.MethodPost, path, founder.ID, gin.H{"type": "yes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dto := decodeItem(t, w)
	assert.Equal(t, 6, dto.YesVotes)
	assert.Equal(t, 1, dto.NoVotes)
	assert.Equal(t, 5, dto.NetVotes)
	require.NotNil(t, dto.UserVote)
	assert.Equal(t, "yes", *dto.UserVote)

	// replace, not accumulate
	w = do(r, http.MethodPost, path, founder.ID, gin.H{"type": "no"})
	require.Equal(t, http.StatusOK, w.Code)
	dto = decodeItem(t, w)
	assert.Equal(t, 3, dto.YesVotes)
	assert.Equal(t, 4, dto.NoVotes)

	w = do(r, http.MethodDelete, path, founder.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dto = decodeItem(t, w)
	assert.Equal(t, 3, dto.YesVotes)
	assert.Equal(t, 1, dto.NoVotes)

	w = do(r, http.MethodDelete, path, founder.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVoteEligibility(t *testing.T) {
	r := setup(t)

	item := roadmap.Item{Title: "Options", Status: roadmap.StatusProposed}
	require.NoError(t, database.DB.Create(&item).Error)
	path := fmt.Sprintf("/roadmap/%d/vote", item.ID)

	monthly := newUser(t, "m@example.com", false, "monthly")
	annual := newUser(t, "a@example.com", false, "annual")

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, path, monthly.ID, gin.H{"type": "yes"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, path, annual.ID, gin.H{"type": "maybe"}).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/roadmap/999/vote", annual.ID, gin.H{"type": "yes"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, path, 0, gin.H{"type": "yes"}).Code)

	w := do(r, http.MethodPost, path, annual.ID, gin.H{"type": "yes"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeItem(t, w).YesVotes)
}

func TestVotingClosedAndCompleted(t *testing.T) {
	r := setup(t)
	annual := newUser(t, "a@example.com", false, "annual")

	past := testNow.Add(-time.Hour)
	expired := roadmap.Item{Title: "Expired", Status: roadmap.StatusProposed, VotingEndsAt: &past}
	require.NoError(t, database.DB.Create(&expired).Error)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, fmt.Sprintf("/roadmap/%d/vote", expired.ID), annual.ID, gin.H{"type": "yes"}).Code)

	open := roadmap.Item{Title: "Open", Status: roadmap.StatusProposed}
	require.NoError(t, database.DB.Create(&open).Error)

	w := do(r, http.MethodPost, fmt.Sprintf("/admin/roadmap/%d/status", open.ID), 0, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeItem(t, w).VotingOpen)

	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, fmt.Sprintf("/roadmap/%d/vote", open.ID), annual.ID, gin.H{"type": "yes"}).Code)

	// completed items cannot go back
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, fmt.Sprintf("/admin/roadmap/%d/status", open.ID), 0, gin.H{"status": "proposed"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, fmt.Sprintf("/admin/roadmap/%d/status", open.ID), 0, gin.H{"status": "shipped"}).Code)
}

func TestAdminCreateAndCloseVoting(t *testing.T) {
	r := setup(t)

	w := do(r, http.MethodPost, "/admin/roadmap", 0, gin.H{"title": "Bridges course", "description": "cross-chain"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeItem(t, w)
	assert.Equal(t, "proposed", created.Status)
	assert.True(t, created.VotingOpen)

	w = do(r, http.MethodPost, fmt.Sprintf("/admin/roadmap/%d/close-voting", created.ID), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	closed := decodeItem(t, w)
	require.NotNil(t, closed.VotingEndsAt)
	assert.True(t, closed.VotingEndsAt.Equal(testNow))

	annual := newUser(t, "late@example.com", false, "annual")
	nowFunc = func() time.Time { return testNow.Add(time.Minute) }
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, fmt.Sprintf("/roadmap/%d/vote", created.ID), annual.ID, gin.H{"type": "yes"}).Code)
}

func TestListItemsIncludesCallerVote(t *testing.T) {
	r := setup(t)
	annual := newUser(t, "a@example.com", false, "annual")

	a := roadmap.Item{Title: "A", Status: roadmap.StatusProposed}
	b := roadmap.Item{Title: "B", Status: roadmap.StatusInProgress}
	require.NoError(t, database.DB.Create(&a).Error)
	require.NoError(t, database.DB.Create(&b).Error)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, fmt.Sprintf("/roadmap/%d/vote", a.ID), annual.ID, gin.H{"type": "yes"}).Code)

	w := do(r, http.MethodGet, "/roadmap", annual.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "B", resp.Items[0].Title) // in progress first
	assert.Nil(t, resp.Items[0].UserVote)
	require.NotNil(t, resp.Items[1].UserVote)
	assert.Equal(t, "yes", *resp.Items[1].UserVote)
	assert.Equal(t, roadmap.VotingPower{CanVote: true, Weight: 1}, resp.Voting)

	w = do(r, http.MethodGet, "/roadmap", 0, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Voting.CanVote)
	assert.Nil(t, resp.Items[1].UserVote)
}
