// ABOUTME: Garden Store records plants and care actions for local use
// ABOUTME: The rule engine reads the same tables through GardenRepository counts
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/raajvamsy/plantopia/internal/models"
)

// GardenStore is the business layer over a GardenRepository
type GardenStore struct {
	repo  GardenRepository
	clock Clock
}

// NewGardenStore creates a store; a nil clock uses the wall clock
func NewGardenStore(repo GardenRepository, clock Clock) *GardenStore {
	return &GardenStore{repo: repo, clock: clock}
}

// AddPlant inserts a plant; sunlight is bounded to 0-100 and level defaults to 1
func (s *GardenStore) AddPlant(ctx context.Context, p models.Plant) (*models.Plant, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	p.Name = strings.TrimSpace(p.Name)
	p.Species = strings.TrimSpace(p.Species)
	if p.UserID == "" {
		return nil, &models.ValidationError{Field: "user_id", Reason: "is required"}
	}
	if p.Name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if p.Sunlight < 0 || p.Sunlight > 100 {
		return nil, &models.ValidationError{Field: "sunlight", Reason: "must be between 0 and 100"}
	}
	if p.Level < 1 {
		p.Level = 1
	}

	p.ID = uuid.New().String()
	p.Archived = false
	p.CreatedAt = s.clock.now()

	if err := s.repo.InsertPlant(ctx, &p); err != nil {
		return nil, &models.PersistenceError{Op: "insert plant", Err: err}
	}
	return &p, nil
}

// ArchivePlant hides a plant from achievement counts
func (s *GardenStore) ArchivePlant(ctx context.Context, id, userID string) error {
	ok, err := s.repo.ArchivePlant(ctx, id, userID)
	if err != nil {
		return &models.PersistenceError{Op: "archive plant", Err: err}
	}
	if !ok {
		return fmt.Errorf("plant %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListPlants returns the user's plants, archived ones included
func (s *GardenStore) ListPlants(ctx context.Context, userID string) ([]models.Plant, error) {
	plants, err := s.repo.ListPlants(ctx, userID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list plants", Err: err}
	}
	return plants, nil
}

// LogCare records a care action against one of the user's plants.
// A missing plant and a plant owned by someone else both yield ErrNotFound.
func (s *GardenStore) LogCare(ctx context.Context, userID, plantID string, action models.CareAction) (*models.CareLog, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &models.ValidationError{Field: "user_id", Reason: "is required"}
	}
	if strings.TrimSpace(plantID) == "" {
		return nil, &models.ValidationError{Field: "plant_id", Reason: "is required"}
	}
	if !action.IsValid() {
		return nil, &models.ValidationError{Field: "action", Reason: "unknown care action"}
	}

	l := &models.CareLog{
		ID:        uuid.New().String(),
		UserID:    strings.TrimSpace(userID),
		PlantID:   strings.TrimSpace(plantID),
		Action:    action,
		CreatedAt: s.clock.now(),
	}
	ok, err := s.repo.InsertCareLog(ctx, l)
	if err != nil {
		return nil, &models.PersistenceError{Op: "insert care log", Err: err}
	}
	if !ok {
		return nil, fmt.Errorf("plant %s: %w", l.PlantID, models.ErrNotFound)
	}
	return l, nil
}
