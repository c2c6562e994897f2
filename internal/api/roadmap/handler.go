package roadmap

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/roadmap"
	"defi-academy/internal/domain/tiers"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/logger"
	"defi-academy/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var nowFunc = time.Now

func parseItemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid roadmap item id"})
		return 0, false
	}
	return uint(id), true
}

func loadSubscriber(userID uint, now time.Time) (tiers.Subscriber, bool) {
	if userID == 0 {
		return tiers.Subscriber{}, false
	}
	var user users.User
	if err := database.DB.Preload("Plan").First(&user, userID).Error; err != nil {
		return tiers.Subscriber{}, false
	}
	return user.Subscriber(now), true
}

// writeError maps domain errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roadmap.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, roadmap.ErrVotingClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, roadmap.ErrNotEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, roadmap.ErrNoVote):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, roadmap.ErrInvalidVoteType),
		errors.Is(err, roadmap.ErrInvalidStatus),
		errors.Is(err, roadmap.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.L().Error("roadmap", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, roadmap.ErrVotingClosed):
		return "closed"
	case errors.Is(err, roadmap.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, roadmap.ErrInvalidVoteType):
		return "invalid_type"
	case errors.Is(err, roadmap.ErrItemNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// GET /roadmap
func ListItems(c *gin.Context) {
	var items []roadmap.Item
	if err := database.DB.
		Order("CASE status WHEN 'in_progress' THEN 0 WHEN 'proposed' THEN 1 ELSE 2 END").
		Order("(yes_votes - no_votes) DESC").
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load roadmap"})
		return
	}

	now := nowFunc()
	userID := c.GetUint("user_id")
	sub, _ := loadSubscriber(userID, now)

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	votes, err := roadmap.UserVotes(c.Request.Context(), database.DB, userID, ids)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := ListResponse{
		Items:  make([]ItemDTO, 0, len(items)),
		Voting: config.Surface().VotingBadge(sub),
	}
	for _, it := range items {
		var vote *roadmap.Vote
		if v, ok := votes[it.ID]; ok {
			vote = &v
		}
		resp.Items = append(resp.Items, toItemDTO(now, it, vote))
	}
	c.JSON(http.StatusOK, resp)
}

// POST /roadmap/:id/vote
func CastVote(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	voteType, err := roadmap.ParseVoteType(req.Type)
	if err != nil {
		metrics.VotesRejected.WithLabelValues(rejectReason(err)).Inc()
		writeError(c, err)
		return
	}

	now := nowFunc()
	userID := c.GetUint("user_id")
	sub, found := loadSubscriber(userID, now)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	surface := config.Surface()
	power := surface.VotingBadge(sub)

	item, vote, err := roadmap.CastVote(c.Request.Context(), database.DB, now, itemID, userID, power, voteType)
	if err != nil {
		metrics.VotesRejected.WithLabelValues(rejectReason(err)).Inc()
		writeError(c, err)
		return
	}

	metrics.VotesCast.WithLabelValues(string(tiers.Classify(sub)), string(voteType)).Inc()
	c.JSON(http.StatusOK, toItemDTO(now, item, &vote))
}

// DELETE /roadmap/:id/vote
func RemoveVote(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	now := nowFunc()
	item, err := roadmap.RemoveVote(c.Request.Context(), database.DB, now, itemID, c.GetUint("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	metrics.VotesRemoved.Inc()
	c.JSON(http.StatusOK, toItemDTO(now, item, nil))
}

// POST /admin/roadmap
func CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := roadmap.Item{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Status:       roadmap.StatusProposed,
		VotingEndsAt: req.VotingEndsAt,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		logger.L().Error("create roadmap item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create roadmap item"})
		return
	}

	c.JSON(http.StatusCreated, toItemDTO(nowFunc(), item, nil))
}

// POST /admin/roadmap/:id/status
func SetStatus(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := roadmap.ParseStatus(req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	now := nowFunc()
	item, err := roadmap.SetStatus(c.Request.Context(), database.DB, now, itemID, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDTO(now, item, nil))
}

// POST /admin/roadmap/:id/close-voting
func CloseVoting(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	now := nowFunc()
	item, err := roadmap.CloseItemVoting(c.Request.Context(), database.DB, now, itemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDTO(now, item, nil))
}
