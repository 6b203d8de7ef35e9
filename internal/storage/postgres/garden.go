// ABOUTME: Plant and care-log storage operations for Postgres
// ABOUTME: Provides the filtered counts read by achievement predicates
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

// GardenRepo handles plants and care_logs persistence
type GardenRepo struct {
	pool *pgxpool.Pool
}

var _ storage.GardenRepository = (*GardenRepo)(nil)

// CountPlants counts the user's non-archived plants meeting the filter
func (r *GardenRepo) CountPlants(ctx context.Context, userID string, f models.PlantFilter) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM plants
		WHERE user_id = $1 AND NOT archived AND sunlight >= $2 AND level >= $3
	`, userID, f.MinSunlight, f.MinLevel).Scan(&n)
	return n, err
}

// CountCareLogs counts the user's care logs of one action
func (r *GardenRepo) CountCareLogs(ctx context.Context, userID string, action models.CareAction) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM care_logs WHERE user_id = $1 AND action = $2
	`, userID, string(action)).Scan(&n)
	return n, err
}

// InsertPlant inserts a plant row
func (r *GardenRepo) InsertPlant(ctx context.Context, p *models.Plant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO plants (id, user_id, name, species, sunlight, level, archived, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.UserID, p.Name, p.Species, p.Sunlight, p.Level, p.Archived, p.CreatedAt)
	return err
}

// ArchivePlant marks an owned plant archived
func (r *GardenRepo) ArchivePlant(ctx context.Context, id, userID string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `UPDATE plants SET archived = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListPlants returns the user's plants oldest first
func (r *GardenRepo) ListPlants(ctx context.Context, userID string) ([]models.Plant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id, name, species, sunlight, level, archived, created_at
		FROM plants
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
	if !validID(l.PlantID) {
		return false, nil
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO care_logs (id, user_id, plant_id, action, created_at)
		SELECT $1::uuid, $2::text, id, $3::text, $4::timestamptz
		FROM plants
		WHERE id = $5 AND user_id = $2
	`, l.ID, l.UserID, string(l.Action), l.CreatedAt, l.PlantID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
