// ABOUTME: Persistence capability consumed by the stores and the rule engine
// ABOUTME: Implemented by the sqlite and postgres adapters
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/raajvamsy/plantopia/internal/models"
)

// ErrUnscopedQuery is returned by adapters for an interaction query naming neither a user nor a plant
var ErrUnscopedQuery = errors.New("interaction query needs a user or plant")

// InteractionRepository reads and writes ai_interactions rows.
// Lookups report absence as (nil, nil); mutations report whether a row matched.
type InteractionRepository interface {
	InsertInteraction(ctx context.Context, in *models.AIInteraction) error
	GetInteraction(ctx context.Context, id string) (*models.AIInteraction, error)
	// UpdateInteraction rewrites the mutable columns of the row matching in.ID and in.UserID
	UpdateInteraction(ctx context.Context, in *models.AIInteraction) (bool, error)
	DeleteInteraction(ctx context.Context, id, userID string) (bool, error)
	// DeleteInteractions removes the user's rows among ids and returns how many were removed
	DeleteInteractions(ctx context.Context, userID string, ids []string) (int, error)
	// ListInteractions fails with ErrUnscopedQuery when q has neither UserID nor PlantID
	ListInteractions(ctx context.Context, q models.InteractionQuery) ([]models.AIInteraction, error)
	InteractionStatRows(ctx context.Context, userID string) ([]models.InteractionStatRow, error)
}

// AchievementRepository reads and writes achievements rows
type AchievementRepository interface {
	// InsertAchievements inserts all rows in one transaction, skipping types the user already has.
	// It returns the number of rows inserted.
	InsertAchievements(ctx context.Context, rows []models.Achievement) (int, error)
	GetAchievement(ctx context.Context, id string) (*models.Achievement, error)
	ListAchievements(ctx context.Context, q models.AchievementQuery) ([]models.Achievement, error)
	UpdateAchievement(ctx context.Context, id string, u models.AchievementUpdate) (bool, error)
	// CompleteAchievement flips completed to true only if it is currently false
	CompleteAchievement(ctx context.Context, id string, at time.Time) (bool, error)
	CountAchievements(ctx context.Context, userID string) (total, completed int, err error)
}

// GardenRepository exposes the plant and care-log aggregates read by achievement predicates
type GardenRepository interface {
	CountPlants(ctx context.Context, userID string, f models.PlantFilter) (int, error)
	CountCareLogs(ctx context.Context, userID string, action models.CareAction) (int, error)
	InsertPlant(ctx context.Context, p *models.Plant) error
	ArchivePlant(ctx context.Context, id, userID string) (bool, error)
	ListPlants(ctx context.Context, userID string) ([]models.Plant, error)
	InsertCareLog(ctx context.Context, l *models.CareLog) (bool, error)
}

// Backend bundles the repositories of one database
type Backend interface {
	Interactions() InteractionRepository
	Achievements() AchievementRepository
	Garden() GardenRepository
	Close() error
}

// Clock returns the current time; stores take one so tests can pin timestamps
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// Limits for list operations
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ClampLimit applies the default for non-positive limits and the hard ceiling
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// requireID rejects a blank identifier as a ValidationError on field
func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &models.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

// LikePattern turns text into a substring LIKE pattern using backslash as the escape
// character, so % and _ in the text match literally
func LikePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}
