// ABOUTME: AI interaction storage operations for Postgres
// ABOUTME: Implements storage.InteractionRepository with pgx
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

const interactionColumns = `id::text, user_id, plant_id, interaction_type, user_message, ai_response,
	confidence_score, image_url, metadata, created_at`

// InteractionRepo handles ai_interactions persistence
type InteractionRepo struct {
	pool *pgxpool.Pool
}

var _ storage.InteractionRepository = (*InteractionRepo)(nil)

// InsertInteraction inserts a new interaction row
func (r *InteractionRepo) InsertInteraction(ctx context.Context, in *models.AIInteraction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ai_interactions (id, user_id, plant_id, interaction_type, user_message, ai_response,
			confidence_score, image_url, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, in.ID, in.UserID, in.PlantID, string(in.InteractionType), in.UserMessage, in.AIResponse,
		in.ConfidenceScore, in.ImageURL, jsonb(in.Metadata), in.CreatedAt)
	return err
}

// GetInteraction retrieves an interaction by its ID
func (r *InteractionRepo) GetInteraction(ctx context.Context, id string) (*models.AIInteraction, error) {
	if !validID(id) {
		return nil, nil
	}

	row := r.pool.QueryRow(ctx, `SELECT `+interactionColumns+` FROM ai_interactions WHERE id = $1`, id)
	in, err := scanInteraction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

// UpdateInteraction rewrites the mutable columns of an owned interaction
func (r *InteractionRepo) UpdateInteraction(ctx context.Context, in *models.AIInteraction) (bool, error) {
	if !validID(in.ID) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE ai_interactions
		SET user_message = $3, ai_response = $4, confidence_score = $5, image_url = $6, plant_id = $7, metadata = $8
		WHERE id = $1 AND user_id = $2
	`, in.ID, in.UserID, in.UserMessage, in.AIResponse, in.ConfidenceScore, in.ImageURL, in.PlantID, jsonb(in.Metadata))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteInteraction deletes an interaction owned by userID
func (r *InteractionRepo) DeleteInteraction(ctx context.Context, id, userID string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM ai_interactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteInteractions deletes the user's interactions among ids
func (r *InteractionRepo) DeleteInteractions(ctx context.Context, userID string, ids []string) (int, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM ai_interactions WHERE user_id = $1 AND id = ANY($2::uuid[])`, userID, valid)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListInteractions returns matching interactions newest-first
func (r *InteractionRepo) ListInteractions(ctx context.Context, q models.InteractionQuery) ([]models.AIInteraction, error) {
	if q.UserID == "" && q.PlantID == "" {
		return nil, storage.ErrUnscopedQuery
	}

	query, args := buildInteractionQuery(q)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AIInteraction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func buildInteractionQuery(q models.InteractionQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.UserID != "" {
		where = append(where, "user_id = "+arg(q.UserID))
	}
	if q.PlantID != "" {
		where = append(where, "plant_id = "+arg(q.PlantID))
	}
	if q.Type != nil {
		where = append(where, "interaction_type = "+arg(string(*q.Type)))
	}
	if q.Text != "" {
		p := arg(storage.LikePattern(q.Text))
		where = append(where, fmt.Sprintf(`(user_message ILIKE %s ESCAPE '\' OR ai_response ILIKE %s ESCAPE '\')`, p, p))
	}

	query := `SELECT ` + interactionColumns + ` FROM ai_interactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}
	return query, args
}

// InteractionStatRows returns the projection used for statistics
func (r *InteractionRepo) InteractionStatRows(ctx context.Context, userID string) ([]models.InteractionStatRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT interaction_type, confidence_score, created_at
		FROM ai_interactions
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InteractionStatRow
	for rows.Next() {
		var (
			row models.InteractionStatRow
			typ string
		)
		if err := rows.Scan(&typ, &row.Confidence, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.Type = models.InteractionType(typ)
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanInteraction(row pgx.Row) (*models.AIInteraction, error) {
	var (
		in       models.AIInteraction
		typ      string
		metadata []byte
	)
	if err := row.Scan(&in.ID, &in.UserID, &in.PlantID, &typ, &in.UserMessage, &in.AIResponse,
		&in.ConfidenceScore, &in.ImageURL, &metadata, &in.CreatedAt); err != nil {
		return nil, err
	}
	in.InteractionType = models.InteractionType(typ)
	in.CreatedAt = in.CreatedAt.UTC()
	if len(metadata) > 0 {
		in.Metadata = metadata
	}
	return &in, nil
}

// jsonb maps empty metadata to NULL
func jsonb(m []byte) any {
	if len(m) == 0 {
		return nil
	}
	return m
}
