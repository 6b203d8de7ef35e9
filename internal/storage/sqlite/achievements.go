// ABOUTME: Achievement storage operations for SQLite
// ABOUTME: Completion is a conditional UPDATE guarded by completed = 0
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

const achievementColumns = `id, user_id, achievement_type, title, description, icon, color,
	completed, completed_at, created_at`

// AchievementRepo handles achievements persistence
type AchievementRepo struct {
	db *DB
}

var _ storage.AchievementRepository = (*AchievementRepo)(nil)

// NewAchievementRepo creates a new AchievementRepo
func NewAchievementRepo(db *DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// InsertAchievements inserts rows in one transaction, skipping existing (user, type) pairs
func (r *AchievementRepo) InsertAchievements(ctx context.Context, rows []models.Achievement) (int, error) {
	inserted := 0
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, a := range rows {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO achievements (`+achievementColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, 0, NULL, ?)
				ON CONFLICT(user_id, achievement_type) DO NOTHING
			`, a.ID, a.UserID, string(a.AchievementType), a.Title, a.Description, a.Icon, a.Color, a.CreatedAt)
			if err != nil {
				return err
			}
			if ok, err := affected(res); err != nil {
				return err
			} else if ok {
				inserted++
			}
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
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = ?`, id)
	a, err := scanAchievement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAchievements returns the user's achievements matching the query
func (r *AchievementRepo) ListAchievements(ctx context.Context, q models.AchievementQuery) ([]models.Achievement, error) {
	where := []string{"user_id = ?"}
	args := []any{q.UserID}

	switch q.Status {
	case models.AchievementsPending:
		where = append(where, "completed = 0")
	case models.AchievementsCompleted:
		where = append(where, "completed = 1")
	}

	query := `SELECT ` + achievementColumns + ` FROM achievements WHERE ` + strings.Join(where, " AND ")
	if q.RecentFirst {
		query += " ORDER BY completed_at DESC, achievement_type"
	} else {
		query += " ORDER BY created_at, achievement_type"
	}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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
	res, err := r.db.conn.ExecContext(ctx, `
		UPDATE achievements
		SET title = COALESCE(?, title),
			description = COALESCE(?, description),
			icon = COALESCE(?, icon),
			color = COALESCE(?, color)
		WHERE id = ?
	`, nullString(u.Title), nullString(u.Description), nullString(u.Icon), nullString(u.Color), id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// CompleteAchievement marks a pending achievement completed
func (r *AchievementRepo) CompleteAchievement(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx, `
		UPDATE achievements
		SET completed = 1, completed_at = ?
		WHERE id = ? AND completed = 0
	`, at, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// CountAchievements returns total and completed counts for the user
func (r *AchievementRepo) CountAchievements(ctx context.Context, userID string) (int, int, error) {
	var total, completed int
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(completed), 0)
		FROM achievements
		WHERE user_id = ?
	`, userID).Scan(&total, &completed)
	return total, completed, err
}

func scanAchievement(s scanner) (*models.Achievement, error) {
	var (
		a           models.Achievement
		typ         string
		completedAt sql.NullTime
	)
	if err := s.Scan(&a.ID, &a.UserID, &typ, &a.Title, &a.Description, &a.Icon, &a.Color,
		&a.Completed, &completedAt, &a.CreatedAt); err != nil {
		return nil, err
	}

	a.AchievementType = models.AchievementType(typ)
	a.CreatedAt = a.CreatedAt.UTC()
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		a.CompletedAt = &t
	}
	return &a, nil
}
