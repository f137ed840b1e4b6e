package routes

import (
	"github.com/LOCAL2/food-score/controllers"
	"github.com/LOCAL2/food-score/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	auth *controllers.AuthController,
	board *controllers.ScoreboardController,
	food *controllers.FoodController,
	user *controllers.UserController,
	rt *controllers.RealtimeController,
	dbUp bool,
) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		database := "up"
		if !dbUp {
			database = "fallback"
		}
		c.JSON(200, gin.H{"status": "ok", "database": database})
	})

	// Public OAuth routes
	oauth := r.Group("/auth")
	{
		oauth.GET("/:provider/login", auth.Login)
		oauth.GET("/:provider/callback", auth.Callback)
	}

	// Public read paths
	r.GET("/api/scoreboard", board.GetScoreboard)
	r.GET("/ws/scoreboard", rt.ScoreboardWS)

	// Protected routes
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/scoreboard", board.PostScore)
		api.POST("/food-items", food.LogFoodItem)
		api.GET("/food-items", food.ListFoodItems)
		api.DELETE("/food-items", food.ClearFoodItems)
		api.GET("/user/stats", user.GetStats)
		api.GET("/user/score-history", user.GetScoreHistory)
		api.POST("/user/avatar", user.UploadAvatar)
	}

	return r
}
