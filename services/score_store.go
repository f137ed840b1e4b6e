package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/LOCAL2/food-score/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRecordNotFound = errors.New("score record not found")

// ScoreStore is the keyed ordered store behind the scoreboard: upsert by
// user id, read back ordered by current score descending with ties broken
// by earliest achieved_at.
type ScoreStore interface {
	Upsert(ctx context.Context, rec *models.ScoreRecord) (*models.ScoreRecord, error)
	List(ctx context.Context, limit int) ([]models.ScoreRecord, error)
	Get(ctx context.Context, userID string) (*models.ScoreRecord, error)
}

type GormScoreStore struct {
	db *gorm.DB
}

func NewGormScoreStore(db *gorm.DB) *GormScoreStore {
	return &GormScoreStore{db: db}
}

// Upsert is a single INSERT ... ON CONFLICT statement. Concurrent first
// submissions for the same user must not race the unique index on user_id,
// so the store never does a read-then-write.
func (s *GormScoreStore) Upsert(ctx context.Context, rec *models.ScoreRecord) (*models.ScoreRecord, error) {
	rec.BestScoreEver = rec.CurrentScore

	set := clause.AssignmentColumns([]string{
		"user_name", "user_image", "current_score", "achieved_at", "breakdown", "updated_at",
	})
	// best_score_ever only ever grows; CASE instead of GREATEST so the
	// same statement runs on Postgres and the sqlite test database
	set = append(set, clause.Assignment{
		Column: clause.Column{Name: "best_score_ever"},
		Value: gorm.Expr("CASE WHEN score_records.best_score_ever > excluded.best_score_ever" +
			" THEN score_records.best_score_ever ELSE excluded.best_score_ever END"),
	})

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: set,
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, rec.UserID)
}

func (s *GormScoreStore) List(ctx context.Context, limit int) ([]models.ScoreRecord, error) {
	var recs []models.ScoreRecord
	err := s.db.WithContext(ctx).
		Order("current_score DESC").
		Order("achieved_at ASC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func (s *GormScoreStore) Get(ctx context.Context, userID string) (*models.ScoreRecord, error) {
	var rec models.ScoreRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// MemoryScoreStore is the degraded-mode store: process-local and volatile.
// The map is shared across request goroutines, hence the lock.
type MemoryScoreStore struct {
	mu      sync.RWMutex
	records map[string]models.ScoreRecord
}

func NewMemoryScoreStore() *MemoryScoreStore {
	return &MemoryScoreStore{records: make(map[string]models.ScoreRecord)}
}

func (s *MemoryScoreStore) Upsert(ctx context.Context, rec *models.ScoreRecord) (*models.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.BestScoreEver = rec.CurrentScore
	if existing, ok := s.records[rec.UserID]; ok && existing.BestScoreEver > rec.CurrentScore {
		rec.BestScoreEver = existing.BestScoreEver
	}
	s.records[rec.UserID] = *rec
	return rec, nil
}

func (s *MemoryScoreStore) List(ctx context.Context, limit int) ([]models.ScoreRecord, error) {
	s.mu.RLock()
	recs := make([]models.ScoreRecord, 0, len(s.records))
	for _, r := range s.records {
		recs = append(recs, r)
	}
	s.mu.RUnlock()

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].CurrentScore != recs[j].CurrentScore {
			return recs[i].CurrentScore > recs[j].CurrentScore
		}
		return recs[i].AchievedAt.Before(recs[j].AchievedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *MemoryScoreStore) Get(ctx context.Context, userID string) (*models.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}
