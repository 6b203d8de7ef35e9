// ABOUTME: Achievement storage operations for Postgres
// ABOUTME: Completion is a conditional UPDATE guarded by completed = false
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

const achievementColumns = `id::text, user_id, achievement_type, title, description, icon, color,
	completed, completed_at, created_at`

// AchievementRepo handles achievements persistence
type AchievementRepo struct {
	pool *pgxpool.Pool
}

var _ storage.AchievementRepository = (*AchievementRepo)(nil)

// InsertAchievements inserts rows in one transaction, skipping existing (user, type) pairs
func (r *AchievementRepo) InsertAchievements(ctx context.Context, rows []models.Achievement) (int, error) {
	inserted := 0
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, a := range rows {
			tag, err := tx.Exec(ctx, `
				INSERT INTO achievements (id, user_id, achievement_type, title, description, icon, color,
					completed, completed_at, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, false, NULL, $8)
				ON CONFLICT (user_id, achievement_type) DO NOTHING
			`, a.ID, a.UserID, string(a.AchievementType), a.Title, a.Description, a.Icon, a.Color, a.CreatedAt)
			if err != nil {
				return err
			}
			inserted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetAchievement retrieves an achievement by its ID
func (r *AchievementRepo) GetAchievement(ctx context.Context, id string) (*models.Achievement, error) {
	if !validID(id) {
		return nil, nil
	}

	a, err := scanAchievement(r.pool.QueryRow(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAchievements returns the user's achievements matching the query
func (r *AchievementRepo) ListAchievements(ctx context.Context, q models.AchievementQuery) ([]models.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements WHERE user_id = $1`
	args := []any{q.UserID}

	switch q.Status {
	case models.AchievementsPending:
		query += " AND NOT completed"
	case models.AchievementsCompleted:
		query += " AND completed"
	}
	if q.RecentFirst {
		query += " ORDER BY completed_at DESC NULLS LAST, achievement_type"
	} else {
		query += " ORDER BY created_at, achievement_type"
	}
	if q.Limit > 0 {
		query += " LIMIT $2"
		args = append(args, q.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateAchievement changes presentation fields only
func (r *AchievementRepo) UpdateAchievement(ctx context.Context, id string, u models.AchievementUpdate) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE achievements
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			icon = COALESCE($4, icon),
			color = COALESCE($5, color)
		WHERE id = $1
	`, id, u.Title, u.Description, u.Icon, u.Color)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CompleteAchievement marks a pending achievement completed
func (r *AchievementRepo) CompleteAchievement(ctx context.Context, id string, at time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE achievements
		SET completed = true, completed_at = $2
		WHERE id = $1 AND completed = false
	`, id, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountAchievements returns total and completed counts for the user
func (r *AchievementRepo) CountAchievements(ctx context.Context, userID string) (int, int, error) {
	var total, completed int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM achievements
		WHERE user_id = $1
	`, userID).Scan(&total, &completed)
	return total, completed, err
}

func scanAchievement(row pgx.Row) (*models.Achievement, error) {
	var (
		a   models.Achievement
		typ string
	)
	if err := row.Scan(&a.ID, &a.UserID, &typ, &a.Title, &a.Description, &a.Icon, &a.Color,
		&a.Completed, &a.CompletedAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.AchievementType = models.AchievementType(typ)
	a.CreatedAt = a.CreatedAt.UTC()
	if a.CompletedAt != nil {
		t := a.CompletedAt.UTC()
		a.CompletedAt = &t
	}
	return &a, nil
}
