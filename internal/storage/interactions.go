// ABOUTME: Interaction Store persists AI request/response records and answers history queries
// ABOUTME: Normalizes text and confidence, enforces ownership, clamps limits, and computes stats
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/models"
)

const (
	bulkDeleteBatchSize = 25
	recentWindow        = 7 * 24 * time.Hour
)

// InteractionStore is the business layer over an InteractionRepository
type InteractionStore struct {
	repo  InteractionRepository
	clock Clock
	log   *logging.Logger
}

// NewInteractionStore creates a store; a nil clock uses the wall clock
func NewInteractionStore(repo InteractionRepository, clock Clock, log *logging.Logger) *InteractionStore {
	return &InteractionStore{
		repo:  repo,
		clock: clock,
		log:   logging.OrNop(log).With("component", "interaction_store"),
	}
}

// Create validates and inserts a new interaction, assigning its ID and creation time
func (s *InteractionStore) Create(ctx context.Context, in *models.AIInteraction) (*models.AIInteraction, error) {
	rec := *in
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = s.clock.now()

	if err := s.repo.InsertInteraction(ctx, &rec); err != nil {
		return nil, &models.PersistenceError{Op: "insert interaction", Err: err}
	}

	s.log.Debug("interaction stored", "id", rec.ID, "user_id", rec.UserID, "type", rec.InteractionType)
	return &rec, nil
}

// GetByID returns the interaction, or nil when it does not exist
func (s *InteractionStore) GetByID(ctx context.Context, id string) (*models.AIInteraction, error) {
	rec, err := s.repo.GetInteraction(ctx, id)
	if err != nil {
		return nil, &models.PersistenceError{Op: "get interaction", Err: err}
	}
	return rec, nil
}

// Update applies a partial correction owned by userID.
// Text is re-trimmed and confidence re-clamped; an empty string clears an optional field.
func (s *InteractionStore) Update(ctx context.Context, id, userID string, u models.InteractionUpdate) (*models.AIInteraction, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != userID {
		return nil, fmt.Errorf("interaction %s: %w", id, models.ErrNotFound)
	}
	if u.IsEmpty() {
		return rec, nil
	}

	if u.UserMessage != nil {
		rec.UserMessage = *u.UserMessage
	}
	if u.AIResponse != nil {
		rec.AIResponse = *u.AIResponse
	}
	if u.ConfidenceScore != nil {
		rec.ConfidenceScore = u.ConfidenceScore
	}
	if u.ImageURL != nil {
		rec.ImageURL = u.ImageURL
	}
	if u.PlantID != nil {
		rec.PlantID = u.PlantID
	}
	if u.Metadata != nil {
		rec.Metadata = u.Metadata
	}

	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdateInteraction(ctx, rec)
	if err != nil {
		return nil, &models.PersistenceError{Op: "update interaction", Err: err}
	}
	if !ok {
		return nil, fmt.Errorf("interaction %s: %w", id, models.ErrNotFound)
	}
	return rec, nil
}

// Delete removes an interaction owned by ownerID.
// A missing row and a row owned by someone else both yield ErrNotFound.
func (s *InteractionStore) Delete(ctx context.Context, id, ownerID string) error {
	ok, err := s.repo.DeleteInteraction(ctx, id, ownerID)
	if err != nil {
		return &models.PersistenceError{Op: "delete interaction", Err: err}
	}
	if !ok {
		return fmt.Errorf("interaction %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListByUser returns the user's interactions newest-first, optionally of one type
func (s *InteractionStore) ListByUser(ctx context.Context, userID string, typ *models.InteractionType, limit int) ([]models.AIInteraction, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.InteractionQuery{UserID: userID, Type: typ, Limit: limit})
}

// ListByPlant returns the interactions about a plant newest-first
func (s *InteractionStore) ListByPlant(ctx context.Context, plantID string, limit int) ([]models.AIInteraction, error) {
	if err := requireID("plant_id", plantID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.InteractionQuery{PlantID: plantID, Limit: limit})
}

// Search matches query case-insensitively as a literal substring of the user message or AI response
func (s *InteractionStore) Search(ctx context.Context, userID, query string, typ *models.InteractionType, limit int) ([]models.AIInteraction, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.InteractionQuery{
		UserID: userID,
		Type:   typ,
		Text:   strings.TrimSpace(query),
		Limit:  limit,
	})
}

func (s *InteractionStore) list(ctx context.Context, q models.InteractionQuery) ([]models.AIInteraction, error) {
	if q.Type != nil && !q.Type.IsValid() {
		return nil, &models.ValidationError{Field: "interaction_type", Reason: "unknown interaction type " + string(*q.Type)}
	}
	q.Limit = ClampLimit(q.Limit)

	out, err := s.repo.ListInteractions(ctx, q)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list interactions", Err: err}
	}
	return out, nil
}

// Stats counts the user's interactions by type, averages non-null confidence scores,
// and counts interactions from the trailing seven days
func (s *InteractionStore) Stats(ctx context.Context, userID string) (*models.InteractionStats, error) {
	rows, err := s.repo.InteractionStatRows(ctx, userID)
	if err != nil {
		return nil, &models.PersistenceError{Op: "load interaction stats", Err: err}
	}

	stats := &models.InteractionStats{ByType: make(map[models.InteractionType]int, len(models.InteractionTypes))}
	for _, t := range models.InteractionTypes {
		stats.ByType[t] = 0
	}

	cutoff := s.clock.now().Add(-recentWindow)
	var sum float64
	var scored int
	for _, r := range rows {
		stats.TotalInteractions++
		stats.ByType[r.Type]++
		if r.Confidence != nil {
			sum += *r.Confidence
			scored++
		}
		if !r.CreatedAt.Before(cutoff) {
			stats.RecentCount++
		}
	}
	if scored > 0 {
		stats.AverageConfidence = sum / float64(scored)
	}
	return stats, nil
}

// BulkDelete removes the user's interactions in batches.
// A failing batch counts all of its ids as failed and processing continues.
func (s *InteractionStore) BulkDelete(ctx context.Context, userID string, ids []string) models.BulkDeleteResult {
	var result models.BulkDeleteResult

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			result.Failed++
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	for start := 0; start < len(unique); start += bulkDeleteBatchSize {
		end := min(start+bulkDeleteBatchSize, len(unique))
		batch := unique[start:end]

		if err := ctx.Err(); err != nil {
			result.Failed += len(unique) - start
			break
		}

		n, err := s.repo.DeleteInteractions(ctx, userID, batch)
		if err != nil {
			s.log.Warn("bulk delete batch failed", "user_id", userID, "batch_size", len(batch), "error", err)
			result.Failed += len(batch)
			continue
		}
		result.Success += n
		result.Failed += len(batch) - n
	}

	return result
}
