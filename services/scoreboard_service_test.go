package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LOCAL2/food-score/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore simulates an unreachable primary.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Upsert(ctx context.Context, rec *models.ScoreRecord) (*models.ScoreRecord, error) {
	return nil, errStoreDown
}

func (failingStore) List(ctx context.Context, limit int) ([]models.ScoreRecord, error) {
	return nil, errStoreDown
}

func (failingStore) Get(ctx context.Context, userID string) (*models.ScoreRecord, error) {
	return nil, errStoreDown
}

// newTestService wires fresh in-memory stores and a controllable clock.
func newTestService(t *testing.T) (*ScoreboardService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewScoreboardService(NewMemoryScoreStore(), NewMemoryScoreStore())
	svc.now = clock.Now
	return svc, clock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestUpdateScoreThenLeaderboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.UpdateScore(ctx, ScoreUpdate{
		UserID:   "u1",
		UserName: "Alice",
		Score:    9,
		Breakdown: models.MealBreakdown{
			"breakfast": {Count: 3, Score: 6, Items: []string{"rice", "egg", "toast"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.IsNewRecord)
	assert.Equal(t, 9, res.CurrentScore)
	assert.Equal(t, 9, res.BestScoreEver)
	assert.False(t, res.UsingFallback)

	board, err := svc.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, "u1", board.Entries[0].UserID)
	assert.Equal(t, 9, board.Entries[0].CurrentScore)
	assert.Equal(t, "Very Big", board.Entries[0].Level.Name)
	assert.False(t, board.UsingFallback)
}

func TestUpdateScoreValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "", Score: 5})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	_, err = svc.UpdateScore(ctx, ScoreUpdate{UserID: "u1", Score: -1})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	// nothing persisted by either rejected call
	board, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, board.Entries)
}

func TestLeaderboardTieBreak(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "a", UserName: "A", Score: 10,
		Breakdown: models.MealBreakdown{"breakfast": {Count: 3, Score: 6}}})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = svc.UpdateScore(ctx, ScoreUpdate{UserID: "b", UserName: "B", Score: 10,
		Breakdown: models.MealBreakdown{"lunch": {Count: 2, Score: 4}}})
	require.NoError(t, err)

	board, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)

	// equal scores: the earlier achiever ranks higher
	assert.Equal(t, "a", board.Entries[0].UserID)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, "b", board.Entries[1].UserID)
	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.Equal(t, "Very Big", board.Entries[0].Level.Name)
	assert.Equal(t, "Very Big", board.Entries[1].Level.Name)
}

func TestLastWriteWins(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "a", UserName: "A", Score: 5})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	res, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "a", UserName: "A", Score: 3})
	require.NoError(t, err)

	// rank key drops to the latest score, best-ever keeps the old high
	assert.Equal(t, 3, res.CurrentScore)
	assert.Equal(t, 5, res.BestScoreEver)

	board, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 3, board.Entries[0].CurrentScore)
	assert.Equal(t, 5, board.Entries[0].BestScoreEver)
}

func TestResubmitSameScoreRefreshesTimestamp(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	first, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "a", UserName: "A", Score: 7})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	second, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "a", UserName: "A", Score: 7})
	require.NoError(t, err)

	assert.Equal(t, first.CurrentScore, second.CurrentScore)
	assert.True(t, second.Record.AchievedAt.After(first.Record.AchievedAt))
}

func TestFallbackOnPrimaryFailure(t *testing.T) {
	svc := NewScoreboardService(failingStore{}, NewMemoryScoreStore())
	ctx := context.Background()

	res, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "u1", UserName: "Alice", Score: 12})
	require.NoError(t, err)
	assert.True(t, res.UsingFallback)

	board, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.True(t, board.UsingFallback)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 12, board.Entries[0].CurrentScore)
}

func TestNilPrimaryGoesStraightToFallback(t *testing.T) {
	svc := NewScoreboardService(nil, NewMemoryScoreStore())
	ctx := context.Background()

	res, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "u1", UserName: "Alice", Score: 2})
	require.NoError(t, err)
	assert.True(t, res.UsingFallback)

	board, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.True(t, board.UsingFallback)
	require.Len(t, board.Entries, 1)
}

func TestBothStoresFailing(t *testing.T) {
	svc := NewScoreboardService(failingStore{}, failingStore{})
	ctx := context.Background()

	_, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: "u1", Score: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidUpdate)

	_, err = svc.GetLeaderboard(ctx, 10)
	require.Error(t, err)
}

func TestLeaderboardLimit(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c", "d"} {
		_, err := svc.UpdateScore(ctx, ScoreUpdate{UserID: id, UserName: id, Score: 10 - i})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	board, err := svc.GetLeaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "a", board.Entries[0].UserID)
	assert.Equal(t, "b", board.Entries[1].UserID)
	assert.Equal(t, []int{1, 2}, []int{board.Entries[0].Rank, board.Entries[1].Rank})
}

func TestEmptyLeaderboardIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)

	board, err := svc.GetLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, board.Entries)
	assert.False(t, board.UsingFallback)
}

func TestGetUserRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetUserRecord(ctx, "ghost")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = svc.UpdateScore(ctx, ScoreUpdate{UserID: "u1", UserName: "Alice", Score: 6})
	require.NoError(t, err)

	rec, err := svc.GetUserRecord(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 6, rec.CurrentScore)
	assert.Equal(t, "Alice", rec.UserName)
}
