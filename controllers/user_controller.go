package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/LOCAL2/food-score/models"
	"github.com/LOCAL2/food-score/services"
	"github.com/LOCAL2/food-score/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Scores *services.ScoreboardService
	Foods  *services.FoodLogService
}

func NewUserController(scores *services.ScoreboardService, foods *services.FoodLogService) *UserController {
	return &UserController{Scores: scores, Foods: foods}
}

// GetStats assembles the profile summary: the scoreboard record plus
// aggregates over the food log. A user with no record gets zeroes, not 404.
func (u *UserController) GetStats(c *gin.Context) {
	userID := c.GetString("userID")

	stats := gin.H{
		"currentScore":     0,
		"highestScore":     0,
		"level":            models.LevelForScore(0),
		"totalItemsLogged": 0,
		"averageItemScore": 0.0,
	}

	rec, err := u.Scores.GetUserRecord(c.Request.Context(), userID)
	switch {
	case err == nil:
		stats["currentScore"] = rec.CurrentScore
		stats["highestScore"] = rec.BestScoreEver
		stats["achievedAt"] = rec.AchievedAt
		stats["level"] = models.LevelForScore(rec.CurrentScore)
		stats["mealBreakdown"] = rec.Breakdown
	case errors.Is(err, services.ErrRecordNotFound):
		// no submissions yet
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch stats"})
		return
	}

	total, avg, err := u.Foods.StatsForUser(c.Request.Context(), userID)
	if err != nil {
		// the food log needs the database; stats degrade to scoreboard-only
		log.Printf("user stats: food log aggregation unavailable: %v", err)
	} else {
		stats["totalItemsLogged"] = total
		stats["averageItemScore"] = avg
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// GetScoreHistory serves the daily totals behind the profile chart.
func (u *UserController) GetScoreHistory(c *gin.Context) {
	hist, err := u.Foods.HistoryForUser(c.Request.Context(), c.GetString("userID"))
	if errors.Is(err, services.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "score history requires the database"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch score history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": hist})
}

type AvatarUploadRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// UploadAvatar stores a profile picture and returns the URL the client
// should submit as its userImage from then on.
func (u *UserController) UploadAvatar(c *gin.Context) {
	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !utils.S3Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "avatar storage not configured"})
		return
	}

	url, err := utils.UploadBase64ImageToS3(req.ImageBase64, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
