package services

import (
	"context"
	"testing"
	"time"

	"github.com/LOCAL2/food-score/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(userID, name, mealType string, amount int) *models.FoodItem {
	return &models.FoodItem{
		UserID:   userID,
		UserName: "Tester",
		FoodName: name,
		Amount:   amount,
		MealType: mealType,
	}
}

func TestFoodLogAddValidation(t *testing.T) {
	svc := NewFoodLogService(newTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name string
		item *models.FoodItem
	}{
		{"missing user", newItem("", "rice", "lunch", 1)},
		{"missing food name", newItem("u1", "", "lunch", 1)},
		{"zero amount", newItem("u1", "rice", "lunch", 0)},
		{"negative amount", newItem("u1", "rice", "lunch", -2)},
		{"bad meal type", newItem("u1", "rice", "brunch", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Add(ctx, tt.item)
			assert.ErrorIs(t, err, ErrInvalidFoodItem)
		})
	}

	items, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items, "rejected items must not be stored")
}

func TestFoodLogAddListClear(t *testing.T) {
	svc := NewFoodLogService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, newItem("u1", "rice", "breakfast", 2)))
	require.NoError(t, svc.Add(ctx, newItem("u1", "ramen", "midnight", 1)))
	require.NoError(t, svc.Add(ctx, newItem("u2", "toast", "breakfast", 1)))

	items, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, 2, it.Score, "per-unit score snapshot")
	}

	deleted, err := svc.ClearForUser(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	items, err = svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// other users are untouched
	items, err = svc.ListForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFoodLogStats(t *testing.T) {
	svc := NewFoodLogService(newTestDB(t))
	ctx := context.Background()

	total, avg, err := svc.StatsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Zero(t, avg)

	require.NoError(t, svc.Add(ctx, newItem("u1", "rice", "lunch", 1)))
	require.NoError(t, svc.Add(ctx, newItem("u1", "curry", "dinner", 3)))

	total, avg, err = svc.StatsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.InDelta(t, 2.0, avg, 0.001)
}

func TestFoodLogScoreHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodLogService(db)
	ctx := context.Background()

	hist, err := svc.HistoryForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, hist.TotalRecords)
	assert.Empty(t, hist.Daily)

	// an earlier day, inserted directly so CreatedAt can be pinned
	old := newItem("u1", "curry", "dinner", 3)
	old.Score = 2
	old.CreatedAt = time.Date(2024, 5, 30, 19, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(old).Error)

	require.NoError(t, svc.Add(ctx, newItem("u1", "rice", "lunch", 1)))
	require.NoError(t, svc.Add(ctx, newItem("u1", "toast", "breakfast", 2)))
	require.NoError(t, svc.Add(ctx, newItem("someone-else", "ramen", "midnight", 5)))

	hist, err = svc.HistoryForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, hist.TotalRecords)
	require.Len(t, hist.Daily, 2)

	// oldest day first: 3 units * 2 points
	assert.Equal(t, "2024-05-30", hist.Daily[0].Date)
	assert.Equal(t, 6, hist.Daily[0].Score)
	// today: (1 + 2) units * 2 points
	assert.Equal(t, 6, hist.Daily[1].Score)

	// (6 + 2 + 4) / 3 items
	assert.InDelta(t, 4.0, hist.AverageScore, 0.001)
}

func TestFoodLogWithoutDatabase(t *testing.T) {
	svc := NewFoodLogService(nil)
	ctx := context.Background()

	err := svc.Add(ctx, newItem("u1", "rice", "lunch", 1))
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.ListForUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, _, err = svc.StatsForUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = svc.HistoryForUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
