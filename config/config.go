package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/LOCAL2/food-score/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrDatabaseNotConfigured means no DB_HOST was supplied. The app keeps
// running on the in-memory scoreboard in that case.
var ErrDatabaseNotConfigured = errors.New("database not configured")

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}
}

func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_HOST") == "" {
		return nil, ErrDatabaseNotConfigured
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		sslMode(),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.ScoreRecord{},
		&models.FoodItem{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate failed: %w", err)
	}

	return db, nil
}

func sslMode() string {
	// Supabase and most hosted Postgres require TLS
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		return v
	}
	return "require"
}
