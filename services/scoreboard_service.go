package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/LOCAL2/food-score/models"
)

// ErrInvalidUpdate marks validation failures. These are never rerouted to
// the fallback store and nothing is persisted.
var ErrInvalidUpdate = errors.New("invalid score update")

var errPrimaryUnavailable = errors.New("primary store not configured")

type ScoreUpdate struct {
	UserID    string
	UserName  string
	UserImage *string
	Score     int
	Breakdown models.MealBreakdown
}

type UpdateResult struct {
	IsNewRecord   bool                `json:"isNewRecord"`
	CurrentScore  int                 `json:"currentScore"`
	BestScoreEver int                 `json:"bestScoreEver"`
	Level         models.ScoreLevel   `json:"level"`
	Record        *models.ScoreRecord `json:"record"`
	UsingFallback bool                `json:"usingFallback"`
}

type Leaderboard struct {
	Entries       []models.RankedEntry `json:"entries"`
	UsingFallback bool                 `json:"usingFallback"`
}

// ScoreboardService routes scoreboard reads and writes through the primary
// store and degrades to the in-memory fallback when the primary fails.
// The two stores are not reconciled: fallback data dies with the process.
type ScoreboardService struct {
	primary  ScoreStore // nil when the database never came up
	fallback ScoreStore
	now      func() time.Time
}

func NewScoreboardService(primary, fallback ScoreStore) *ScoreboardService {
	return &ScoreboardService{primary: primary, fallback: fallback, now: time.Now}
}

func (s *ScoreboardService) UpdateScore(ctx context.Context, in ScoreUpdate) (*UpdateResult, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidUpdate)
	}
	if in.Score < 0 {
		return nil, fmt.Errorf("%w: score must be >= 0", ErrInvalidUpdate)
	}
	name := in.UserName
	if name == "" {
		name = "Unknown User"
	}

	rec := &models.ScoreRecord{
		UserID:       in.UserID,
		UserName:     name,
		UserImage:    in.UserImage,
		CurrentScore: in.Score,
		AchievedAt:   s.now().UTC(),
		Breakdown:    in.Breakdown,
	}

	usingFallback := false
	saved, err := s.upsertPrimary(ctx, rec)
	if err != nil {
		log.Printf("scoreboard: primary store write failed, using fallback: %v", err)
		usingFallback = true
		saved, err = s.fallback.Upsert(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("scoreboard: both stores failed to save score: %w", err)
		}
	}

	return &UpdateResult{
		IsNewRecord:   true, // every submission records current activity
		CurrentScore:  saved.CurrentScore,
		BestScoreEver: saved.BestScoreEver,
		Level:         models.LevelForScore(saved.CurrentScore),
		Record:        saved,
		UsingFallback: usingFallback,
	}, nil
}

func (s *ScoreboardService) GetLeaderboard(ctx context.Context, limit int) (*Leaderboard, error) {
	if limit <= 0 {
		limit = 10
	}

	usingFallback := false
	recs, err := s.listPrimary(ctx, limit)
	if err != nil {
		log.Printf("scoreboard: primary store read failed, using fallback: %v", err)
		usingFallback = true
		recs, err = s.fallback.List(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("scoreboard: both stores failed to list scores: %w", err)
		}
	}

	entries := make([]models.RankedEntry, 0, len(recs))
	for i, r := range recs {
		entries = append(entries, models.RankedEntry{
			UserID:        r.UserID,
			UserName:      r.UserName,
			UserImage:     r.UserImage,
			CurrentScore:  r.CurrentScore,
			BestScoreEver: r.BestScoreEver,
			AchievedAt:    r.AchievedAt,
			Breakdown:     r.Breakdown,
			Rank:          i + 1,
			Level:         models.LevelForScore(r.CurrentScore),
		})
	}
	return &Leaderboard{Entries: entries, UsingFallback: usingFallback}, nil
}

// GetUserRecord reads a single user's record for the stats surface.
// A missing record is not a store failure and does not hit the fallback.
func (s *ScoreboardService) GetUserRecord(ctx context.Context, userID string) (*models.ScoreRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidUpdate)
	}

	rec, err := s.getPrimary(ctx, userID)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, ErrRecordNotFound):
		return nil, err
	}

	log.Printf("scoreboard: primary store read failed, using fallback: %v", err)
	return s.fallback.Get(ctx, userID)
}

func (s *ScoreboardService) upsertPrimary(ctx context.Context, rec *models.ScoreRecord) (*models.ScoreRecord, error) {
	if s.primary == nil {
		return nil, errPrimaryUnavailable
	}
	return s.primary.Upsert(ctx, rec)
}

func (s *ScoreboardService) listPrimary(ctx context.Context, limit int) ([]models.ScoreRecord, error) {
	if s.primary == nil {
		return nil, errPrimaryUnavailable
	}
	return s.primary.List(ctx, limit)
}

func (s *ScoreboardService) getPrimary(ctx context.Context, userID string) (*models.ScoreRecord, error) {
	if s.primary == nil {
		return nil, errPrimaryUnavailable
	}
	return s.primary.Get(ctx, userID)
}
