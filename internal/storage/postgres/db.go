// ABOUTME: Postgres backend over a pgx connection pool
// ABOUTME: Targets the hosted plant-care database; the bootstrap schema is opt-in
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raajvamsy/plantopia/internal/storage"
)

// Storage implements storage.Backend on a Postgres pool
type Storage struct {
	pool         *pgxpool.Pool
	interactions *InteractionRepo
	achievements *AchievementRepo
	garden       *GardenRepo
}

var _ storage.Backend = (*Storage)(nil)

// Open connects to databaseURL and verifies the connection
func Open(ctx context.Context, databaseURL string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return New(pool), nil
}

// New wraps an existing pool
func New(pool *pgxpool.Pool) *Storage {
	return &Storage{
		pool:         pool,
		interactions: &InteractionRepo{pool: pool},
		achievements: &AchievementRepo{pool: pool},
		garden:       &GardenRepo{pool: pool},
	}
}

// Migrate creates the tables when they do not exist yet
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Storage) Interactions() storage.InteractionRepository { return s.interactions }
func (s *Storage) Achievements() storage.AchievementRepository { return s.achievements }
func (s *Storage) Garden() storage.GardenRepository             { return s.garden }

// Close releases every pooled connection
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// validID reports whether id can address a uuid primary key.
// Anything else cannot match a row, so lookups short-circuit to "absent".
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
