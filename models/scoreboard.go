package models

import (
	"time"

	"gorm.io/gorm"
)

// MealSummary is the per-meal slice of a submitted breakdown.
// The score inside is display data only; ranking never reads it.
type MealSummary struct {
	Count int      `json:"count"`
	Score int      `json:"score"`
	Items []string `json:"items,omitempty"`
}

// MealBreakdown maps a meal type ("breakfast"|"lunch"|"dinner"|"midnight")
// to its summary. Stored as a JSON column.
type MealBreakdown map[string]MealSummary

// One ScoreRecord per user, keyed by UserID. CurrentScore is the rank key;
// BestScoreEver only ever grows and is informational.
type ScoreRecord struct {
	gorm.Model
	UserID        string        `gorm:"uniqueIndex;not null" json:"userId"`
	UserName      string        `gorm:"not null" json:"userName"`
	UserImage     *string       `json:"userImage"`
	CurrentScore  int           `gorm:"index:idx_score_records_current_score,sort:desc;not null" json:"currentScore"`
	BestScoreEver int           `gorm:"not null" json:"bestScoreEver"`
	AchievedAt    time.Time     `gorm:"index;not null" json:"achievedAt"`
	Breakdown     MealBreakdown `gorm:"serializer:json" json:"mealBreakdown"`
}

// RankedEntry is a ScoreRecord decorated for the leaderboard read path.
type RankedEntry struct {
	UserID        string        `json:"userId"`
	UserName      string        `json:"userName"`
	UserImage     *string       `json:"userImage"`
	CurrentScore  int           `json:"currentScore"`
	BestScoreEver int           `json:"bestScoreEver"`
	AchievedAt    time.Time     `json:"achievedAt"`
	Breakdown     MealBreakdown `json:"mealBreakdown,omitempty"`
	Rank          int           `json:"rank"`
	Level         ScoreLevel    `json:"level"`
}
