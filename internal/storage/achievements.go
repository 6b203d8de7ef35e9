// ABOUTME: Achievement Store manages per-user milestone rows and their one-way completion
// ABOUTME: Completion is a conditional transition so concurrent callers award at most once
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/models"
)

// AchievementStore is the business layer over an AchievementRepository
type AchievementStore struct {
	repo  AchievementRepository
	clock Clock
	log   *logging.Logger
}

// NewAchievementStore creates a store; a nil clock uses the wall clock
func NewAchievementStore(repo AchievementRepository, clock Clock, log *logging.Logger) *AchievementStore {
	return &AchievementStore{
		repo:  repo,
		clock: clock,
		log:   logging.OrNop(log).With("component", "achievement_store"),
	}
}

// Create inserts pending rows for account bootstrap in a single transaction.
// Types the user already has are skipped; the number of inserted rows is returned.
func (s *AchievementStore) Create(ctx context.Context, rows []models.Achievement) (int, error) {
	now := s.clock.now()
	prepared := make([]models.Achievement, len(rows))
	for i, a := range rows {
		a.ID = uuid.New().String()
		a.Completed = false
		a.CompletedAt = nil
		a.CreatedAt = now
		if err := a.Validate(); err != nil {
			return 0, &models.ValidationError{Field: "achievement", Reason: err.Error()}
		}
		prepared[i] = a
	}

	n, err := s.repo.InsertAchievements(ctx, prepared)
	if err != nil {
		return 0, &models.PersistenceError{Op: "insert achievements", Err: err}
	}
	return n, nil
}

// GetByID returns the achievement, or nil when it does not exist
func (s *AchievementStore) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	a, err := s.repo.GetAchievement(ctx, id)
	if err != nil {
		return nil, &models.PersistenceError{Op: "get achievement", Err: err}
	}
	return a, nil
}

// ListByUser returns every achievement of the user
func (s *AchievementStore) ListByUser(ctx context.Context, userID string) ([]models.Achievement, error) {
	return s.list(ctx, models.AchievementQuery{UserID: userID, Status: models.AchievementsAll})
}

// ListPending returns the achievements the user has not completed yet
func (s *AchievementStore) ListPending(ctx context.Context, userID string) ([]models.Achievement, error) {
	return s.list(ctx, models.AchievementQuery{UserID: userID, Status: models.AchievementsPending})
}

// ListCompleted returns the achievements the user has completed
func (s *AchievementStore) ListCompleted(ctx context.Context, userID string) ([]models.Achievement, error) {
	return s.list(ctx, models.AchievementQuery{UserID: userID, Status: models.AchievementsCompleted})
}

// ListRecentlyCompleted returns completed achievements ordered by completed_at descending
func (s *AchievementStore) ListRecentlyCompleted(ctx context.Context, userID string, limit int) ([]models.Achievement, error) {
	return s.list(ctx, models.AchievementQuery{
		UserID:      userID,
		Status:      models.AchievementsCompleted,
		RecentFirst: true,
		Limit:       ClampLimit(limit),
	})
}

func (s *AchievementStore) list(ctx context.Context, q models.AchievementQuery) ([]models.Achievement, error) {
	out, err := s.repo.ListAchievements(ctx, q)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list achievements", Err: err}
	}
	return out, nil
}

// Update edits presentation fields; completion state can only change through Complete
func (s *AchievementStore) Update(ctx context.Context, id string, u models.AchievementUpdate) (*models.Achievement, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return nil, &models.ValidationError{Field: "title", Reason: "cannot be empty"}
	}

	ok, err := s.repo.UpdateAchievement(ctx, id, u)
	if err != nil {
		return nil, &models.PersistenceError{Op: "update achievement", Err: err}
	}
	if !ok {
		return nil, fmt.Errorf("achievement %s: %w", id, models.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

// Complete performs the pending -> completed transition.
// The bool reports whether this call made the transition; a second call is a no-op
// that leaves completed_at untouched. An unknown id yields ErrNotFound.
func (s *AchievementStore) Complete(ctx context.Context, id string) (*models.Achievement, bool, error) {
	changed, err := s.repo.CompleteAchievement(ctx, id, s.clock.now())
	if err != nil {
		return nil, false, &models.PersistenceError{Op: "complete achievement", Err: err}
	}

	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if a == nil {
		return nil, false, fmt.Errorf("achievement %s: %w", id, models.ErrNotFound)
	}

	if changed {
		s.log.Info("achievement completed", "id", id, "user_id", a.UserID, "type", a.AchievementType)
	}
	return a, changed, nil
}

// Stats summarizes the user's progress
func (s *AchievementStore) Stats(ctx context.Context, userID string) (models.AchievementStats, error) {
	total, completed, err := s.repo.CountAchievements(ctx, userID)
	if err != nil {
		return models.AchievementStats{}, &models.PersistenceError{Op: "count achievements", Err: err}
	}
	return models.NewAchievementStats(total, completed), nil
}
