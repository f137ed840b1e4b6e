package main

import (
	"log"
	"os"

	"github.com/LOCAL2/food-score/config"
	"github.com/LOCAL2/food-score/controllers"
	"github.com/LOCAL2/food-score/routes"
	"github.com/LOCAL2/food-score/services"
	"github.com/LOCAL2/food-score/utils"
)

func main() {
	config.Load()

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Printf("Database unavailable, scoreboard runs on the in-memory fallback: %v", err)
	}

	if err := utils.InitS3(); err != nil {
		log.Printf("S3 unavailable, avatar uploads disabled: %v", err)
	}

	var primary services.ScoreStore
	if db != nil {
		primary = services.NewGormScoreStore(db)
	}
	scoreboard := services.NewScoreboardService(primary, services.NewMemoryScoreStore())
	foods := services.NewFoodLogService(db)
	authSvc := services.NewAuthService(baseURL())
	hub := services.NewRealtimeHub()

	r := routes.SetupRouter(
		controllers.NewAuthController(authSvc),
		controllers.NewScoreboardController(scoreboard, hub),
		controllers.NewFoodController(foods),
		controllers.NewUserController(scoreboard, foods),
		controllers.NewRealtimeController(hub),
		db != nil,
	)
	r.Run(":8080")
}

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
