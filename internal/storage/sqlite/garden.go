// ABOUTME: Plant and care-log storage operations for SQLite
// ABOUTME: Provides the filtered counts read by achievement predicates
package sqlite

import (
	"context"

	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

// GardenRepo handles plants and care_logs persistence
type GardenRepo struct {
	db *DB
}

var _ storage.GardenRepository = (*GardenRepo)(nil)

// NewGardenRepo creates a new GardenRepo
func NewGardenRepo(db *DB) *GardenRepo {
	return &GardenRepo{db: db}
}

// CountPlants counts the user's non-archived plants meeting the filter
func (r *GardenRepo) CountPlants(ctx context.Context, userID string, f models.PlantFilter) (int, error) {
	var n int
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM plants
		WHERE user_id = ? AND archived = 0 AND sunlight >= ? AND level >= ?
	`, userID, f.MinSunlight, f.MinLevel).Scan(&n)
	return n, err
}

// CountCareLogs counts the user's care logs of one action
func (r *GardenRepo) CountCareLogs(ctx context.Context, userID string, action models.CareAction) (int, error) {
	var n int
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM care_logs WHERE user_id = ? AND action = ?
	`, userID, string(action)).Scan(&n)
	return n, err
}

// InsertPlant inserts a plant row
func (r *GardenRepo) InsertPlant(ctx context.Context, p *models.Plant) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO plants (id, user_id, name, species, sunlight, level, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Name, p.Species, p.Sunlight, p.Level, p.Archived, p.CreatedAt)
	return err
}

// ArchivePlant marks an owned plant archived
func (r *GardenRepo) ArchivePlant(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx, `UPDATE plants SET archived = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// ListPlants returns the user's plants oldest first
func (r *GardenRepo) ListPlants(ctx context.Context, userID string) ([]models.Plant, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, user_id, name, species, sunlight, level, archived, created_at
		FROM plants
		WHERE user_id = ?
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Plant
	for rows.Next() {
		var p models.Plant
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Species, &p.Sunlight, &p.Level, &p.Archived, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertCareLog inserts a care log row when the plant belongs to the log's user
func (r *GardenRepo) InsertCareLog(ctx context.Context, l *models.CareLog) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO care_logs (id, user_id, plant_id, action, created_at)
		SELECT ?, ?, id, ?, ?
		FROM plants
		WHERE id = ? AND user_id = ?
	`, l.ID, l.UserID, string(l.Action), l.CreatedAt, l.PlantID, l.UserID)
	if err != nil {
		return false, err
	}
	return affected(res)
}
