// ABOUTME: SQLite backend bundling the interaction, achievement, and garden repositories
// ABOUTME: Used for local CLI runs and as the test database
package sqlite

import (
	"context"
	"fmt"

	"github.com/raajvamsy/plantopia/internal/storage"
)

// Storage implements storage.Backend on a single SQLite database
type Storage struct {
	db           *DB
	interactions *InteractionRepo
	achievements *AchievementRepo
	garden       *GardenRepo
}

var _ storage.Backend = (*Storage)(nil)

// NewStorage opens the database at the default XDG path
func NewStorage(ctx context.Context) (*Storage, error) {
	return NewStorageWithPath(ctx, DefaultDBPath())
}

// NewStorageWithPath opens the database at a custom path
func NewStorageWithPath(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory(ctx context.Context) (*Storage, error) {
	db, err := OpenInMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:           db,
		interactions: NewInteractionRepo(db),
		achievements: NewAchievementRepo(db),
		garden:       NewGardenRepo(db),
	}
}

func (s *Storage) Interactions() storage.InteractionRepository { return s.interactions }
func (s *Storage) Achievements() storage.AchievementRepository { return s.achievements }
func (s *Storage) Garden() storage.GardenRepository             { return s.garden }

// DB returns the underlying database
func (s *Storage) DB() *DB {
	return s.db
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
