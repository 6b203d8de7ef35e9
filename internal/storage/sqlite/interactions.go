// ABOUTME: AI interaction storage operations for SQLite
// ABOUTME: Implements storage.InteractionRepository over the ai_interactions table
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

const interactionColumns = `id, user_id, plant_id, interaction_type, user_message, ai_response,
	confidence_score, image_url, metadata, created_at`

// InteractionRepo handles ai_interactions persistence
type InteractionRepo struct {
	db *DB
}

var _ storage.InteractionRepository = (*InteractionRepo)(nil)

// NewInteractionRepo creates a new InteractionRepo
func NewInteractionRepo(db *DB) *InteractionRepo {
	return &InteractionRepo{db: db}
}

// InsertInteraction inserts a new interaction row
func (r *InteractionRepo) InsertInteraction(ctx context.Context, in *models.AIInteraction) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO ai_interactions (`+interactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.ID, in.UserID, nullString(in.PlantID), string(in.InteractionType), in.UserMessage,
		in.AIResponse, nullFloat(in.ConfidenceScore), nullString(in.ImageURL),
		nullMetadata(in.Metadata), in.CreatedAt)
	return err
}

// GetInteraction retrieves an interaction by its ID
func (r *InteractionRepo) GetInteraction(ctx context.Context, id string) (*models.AIInteraction, error) {
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+interactionColumns+` FROM ai_interactions WHERE id = ?`, id)
	in, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

// UpdateInteraction rewrites the mutable columns of an owned interaction
func (r *InteractionRepo) UpdateInteraction(ctx context.Context, in *models.AIInteraction) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx, `
		UPDATE ai_interactions
		SET user_message = ?, ai_response = ?, confidence_score = ?, image_url = ?, plant_id = ?, metadata = ?
		WHERE id = ? AND user_id = ?
	`, in.UserMessage, in.AIResponse, nullFloat(in.ConfidenceScore), nullString(in.ImageURL),
		nullString(in.PlantID), nullMetadata(in.Metadata), in.ID, in.UserID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// DeleteInteraction deletes an interaction owned by userID
func (r *InteractionRepo) DeleteInteraction(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM ai_interactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// DeleteInteractions deletes the user's interactions among ids
func (r *InteractionRepo) DeleteInteractions(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM ai_interactions WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListInteractions returns matching interactions newest-first
func (r *InteractionRepo) ListInteractions(ctx context.Context, q models.InteractionQuery) ([]models.AIInteraction, error) {
	if q.UserID == "" && q.PlantID == "" {
		return nil, storage.ErrUnscopedQuery
	}

	var (
		where []string
		args  []any
	)
	if q.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.PlantID != "" {
		where = append(where, "plant_id = ?")
		args = append(args, q.PlantID)
	}
	if q.Type != nil {
		where = append(where, "interaction_type = ?")
		args = append(args, string(*q.Type))
	}
	if q.Text != "" {
		pattern := storage.LikePattern(strings.ToLower(q.Text))
		where = append(where, `(ulower(user_message) LIKE ? ESCAPE '\' OR ulower(ai_response) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + interactionColumns + ` FROM ai_interactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

// InteractionStatRows returns the projection used for statistics
func (r *InteractionRepo) InteractionStatRows(ctx context.Context, userID string) ([]models.InteractionStatRow, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT interaction_type, confidence_score, created_at
		FROM ai_interactions
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.InteractionStatRow
	for rows.Next() {
		var (
			row  models.InteractionStatRow
			typ  string
			conf sql.NullFloat64
		)
		if err := rows.Scan(&typ, &conf, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.Type = models.InteractionType(typ)
		row.Confidence = floatPtr(conf)
		out = append(out, row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInteraction(s scanner) (*models.AIInteraction, error) {
	var (
		in       models.AIInteraction
		typ      string
		plantID  sql.NullString
		conf     sql.NullFloat64
		imageURL sql.NullString
		metadata sql.NullString
	)
	if err := s.Scan(&in.ID, &in.UserID, &plantID, &typ, &in.UserMessage, &in.AIResponse,
		&conf, &imageURL, &metadata, &in.CreatedAt); err != nil {
		return nil, err
	}

	in.InteractionType = models.InteractionType(typ)
	in.PlantID = stringPtr(plantID)
	in.ConfidenceScore = floatPtr(conf)
	in.ImageURL = stringPtr(imageURL)
	if metadata.Valid && metadata.String != "" {
		in.Metadata = []byte(metadata.String)
	}
	in.CreatedAt = in.CreatedAt.UTC()
	return &in, nil
}

func nullMetadata(m []byte) sql.NullString {
	if len(m) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(m), Valid: true}
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
