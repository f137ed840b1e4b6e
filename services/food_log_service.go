package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/LOCAL2/food-score/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidFoodItem  = errors.New("invalid food item")
	ErrStoreUnavailable = errors.New("food log store unavailable")
)

// Each logged unit of food is worth this many points. The client sums the
// points into the score it submits to the scoreboard.
const scorePerUnit = 2

var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"midnight":  true,
}

// FoodLogService owns the food_items table: the per-item activity log a
// user can review and wipe independently of the scoreboard.
type FoodLogService struct {
	db *gorm.DB
}

func NewFoodLogService(db *gorm.DB) *FoodLogService {
	return &FoodLogService{db: db}
}

func (s *FoodLogService) Add(ctx context.Context, item *models.FoodItem) error {
	if item.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidFoodItem)
	}
	if item.FoodName == "" {
		return fmt.Errorf("%w: missing food name", ErrInvalidFoodItem)
	}
	if item.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidFoodItem)
	}
	if !validMealTypes[item.MealType] {
		return fmt.Errorf("%w: unknown meal type %q", ErrInvalidFoodItem, item.MealType)
	}
	if s.db == nil {
		return ErrStoreUnavailable
	}

	item.Score = scorePerUnit
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *FoodLogService) ListForUser(ctx context.Context, userID string) ([]models.FoodItem, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	var items []models.FoodItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// ClearForUser deletes the caller's own log. Scoreboard records are a
// separate table and stay untouched.
func (s *FoodLogService) ClearForUser(ctx context.Context, userID string) (int64, error) {
	if s.db == nil {
		return 0, ErrStoreUnavailable
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.FoodItem{})
	return res.RowsAffected, res.Error
}

type DailyScore struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Score int    `json:"score"`
}

type ScoreHistory struct {
	TotalRecords int          `json:"totalRecords"`
	AverageScore float64      `json:"averageScore"`
	Daily        []DailyScore `json:"daily"`
}

// HistoryForUser rolls the log up into daily totals for the profile
// chart. Each item contributes amount * per-unit score to its day.
// Aggregated in Go so the same code serves Postgres and sqlite.
func (s *FoodLogService) HistoryForUser(ctx context.Context, userID string) (*ScoreHistory, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	var items []models.FoodItem
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	hist := &ScoreHistory{TotalRecords: len(items), Daily: []DailyScore{}}
	if len(items) == 0 {
		return hist, nil
	}

	grand := 0
	totals := map[string]int{}
	var days []string
	for _, it := range items {
		day := it.CreatedAt.UTC().Format("2006-01-02")
		if _, seen := totals[day]; !seen {
			days = append(days, day)
		}
		pts := it.Score * it.Amount
		totals[day] += pts
		grand += pts
	}
	for _, day := range days {
		hist.Daily = append(hist.Daily, DailyScore{Date: day, Score: totals[day]})
	}
	hist.AverageScore = float64(grand) / float64(len(items))
	return hist, nil
}

// StatsForUser aggregates the log for the profile page: how many items
// were ever logged and their average per-unit score.
func (s *FoodLogService) StatsForUser(ctx context.Context, userID string) (total int64, avgScore float64, err error) {
	if s.db == nil {
		return 0, 0, ErrStoreUnavailable
	}
	if err = s.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if total == 0 {
		return 0, 0, nil
	}
	err = s.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avgScore).Error
	return total, avgScore, err
}
