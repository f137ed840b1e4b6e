package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/LOCAL2/food-score/models"
	"github.com/LOCAL2/food-score/services"

	"github.com/gin-gonic/gin"
)

type ScoreboardController struct {
	Svc *services.ScoreboardService
	Hub *services.RealtimeHub
}

func NewScoreboardController(svc *services.ScoreboardService, hub *services.RealtimeHub) *ScoreboardController {
	return &ScoreboardController{Svc: svc, Hub: hub}
}

// GetScoreboard is public: anyone can watch the leaderboard.
func (sc *ScoreboardController) GetScoreboard(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid limit"})
			return
		}
		limit = n
	}

	board, err := sc.Svc.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch scoreboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"leaderboard":   board.Entries,
		"usingFallback": board.UsingFallback,
		"timestamp":     time.Now().UTC(),
	})
}

// PostScore records the score the client computed from its meal form.
// Identity comes from the session token, never from the request body.
func (sc *ScoreboardController) PostScore(c *gin.Context) {
	var body struct {
		Score         *int                 `json:"score"`
		MealBreakdown models.MealBreakdown `json:"mealBreakdown"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid score"})
		return
	}
	if body.Score == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid score"})
		return
	}

	var image *string
	if v := c.GetString("userImage"); v != "" {
		image = &v
	}

	res, err := sc.Svc.UpdateScore(c.Request.Context(), services.ScoreUpdate{
		UserID:    c.GetString("userID"),
		UserName:  c.GetString("userName"),
		UserImage: image,
		Score:     *body.Score,
		Breakdown: body.MealBreakdown,
	})
	if errors.Is(err, services.ErrInvalidUpdate) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save score"})
		return
	}

	sc.Hub.Broadcast(services.ScoreboardEvent{
		Type:     "scoreboard_updated",
		UserID:   res.Record.UserID,
		UserName: res.Record.UserName,
		Score:    res.CurrentScore,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Score recorded",
		"isNewRecord":   res.IsNewRecord,
		"score":         res.CurrentScore,
		"highestScore":  res.BestScoreEver,
		"level":         res.Level,
		"usingFallback": res.UsingFallback,
		"timestamp":     time.Now().UTC(),
	})
}
