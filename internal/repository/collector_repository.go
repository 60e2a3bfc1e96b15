package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// CollectorRepository provides database access for waste collectors.
type CollectorRepository struct {
	db *sqlx.DB
}

// NewCollectorRepository instantiates the repository.
func NewCollectorRepository(db *sqlx.DB) *CollectorRepository {
	return &CollectorRepository{db: db}
}

const collectorColumns = `id, name, vehicle_number, phone_number, email, is_available, current_lat, current_lng, created_at`

// Create inserts a waste collector.
func (r *CollectorRepository) Create(ctx context.Context, collector *models.WasteCollector) error {
	const query = `INSERT INTO waste_collectors (id, name, vehicle_number, phone_number, email, is_available, current_lat, current_lng, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		collector.ID, collector.Name, collector.VehicleNumber, collector.PhoneNumber,
		collector.Email, collector.IsAvailable, collector.CurrentLat, collector.CurrentLng,
		collector.CreatedAt); err != nil {
		return fmt.Errorf("create waste collector: %w", err)
	}
	return nil
}

// FindByID returns a waste collector by identifier.
func (r *CollectorRepository) FindByID(ctx context.Context, id string) (*models.WasteCollector, error) {
	query := `SELECT ` + collectorColumns + ` FROM waste_collectors WHERE id = $1 LIMIT 1`
	var collector models.WasteCollector
	if err := r.db.GetContext(ctx, &collector, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find waste collector: %w", err)
	}
	return &collector, nil
}

// List returns all collectors, optionally only available ones.
func (r *CollectorRepository) List(ctx context.Context, availableOnly bool) ([]models.WasteCollector, error) {
	query := `SELECT ` + collectorColumns + ` FROM waste_collectors`
	if availableOnly {
		query += ` WHERE is_available = TRUE`
	}
	query += ` ORDER BY name ASC`
	var collectors []models.WasteCollector
	if err := r.db.SelectContext(ctx, &collectors, query); err != nil {
		return nil, fmt.Errorf("list waste collectors: %w", err)
	}
	return collectors, nil
}

// Update persists collector fields.
func (r *CollectorRepository) Update(ctx context.Context, collector *models.WasteCollector) error {
	const query = `UPDATE waste_collectors SET name = $2, vehicle_number = $3, phone_number = $4, email = $5, is_available = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		collector.ID, collector.Name, collector.VehicleNumber, collector.PhoneNumber,
		collector.Email, collector.IsAvailable)
	if err != nil {
		return fmt.Errorf("update waste collector: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateLocation records the collector's last reported position.
func (r *CollectorRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	const query = `UPDATE waste_collectors SET current_lat = $2, current_lng = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, lat, lng)
	if err != nil {
		return fmt.Errorf("update collector location: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a waste collector.
func (r *CollectorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waste_collectors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete waste collector: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
