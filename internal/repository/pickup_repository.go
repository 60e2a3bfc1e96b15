package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// PickupRepository provides database access for pickup requests and pickups.
type PickupRepository struct {
	db *sqlx.DB
}

// NewPickupRepository instantiates the repository.
func NewPickupRepository(db *sqlx.DB) *PickupRepository {
	return &PickupRepository{db: db}
}

const pickupRequestColumns = `id, user_id, waste_type, pickup_date, pickup_time, address, latitude, longitude, instructions, quantity_estimate, status, collector_id, created_at, updated_at`

// CreateRequest inserts a pickup request.
func (r *PickupRepository) CreateRequest(ctx context.Context, req *models.PickupRequest) error {
	const query = `INSERT INTO pickup_requests (id, user_id, waste_type, pickup_date, pickup_time, address, latitude, longitude, instructions, quantity_estimate, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		req.ID, req.UserID, req.WasteType, req.PickupDate, req.PickupTime, req.Address,
		req.Latitude, req.Longitude, req.Instructions, req.QuantityEstimate,
		req.Status, req.CreatedAt, req.UpdatedAt); err != nil {
		return fmt.Errorf("create pickup request: %w", err)
	}
	return nil
}

// FindRequestByID returns a pickup request by identifier.
func (r *PickupRepository) FindRequestByID(ctx context.Context, id string) (*models.PickupRequest, error) {
	query := `SELECT ` + pickupRequestColumns + ` FROM pickup_requests WHERE id = $1 LIMIT 1`
	var req models.PickupRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find pickup request: %w", err)
	}
	return &req, nil
}

// ListRequests returns pickup requests matching the filter with total count.
func (r *PickupRepository) ListRequests(ctx context.Context, filter models.PickupRequestFilter) ([]models.PickupRequest, int, error) {
	baseQuery := `FROM pickup_requests WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.WasteType != "" {
		conditions = append(conditions, fmt.Sprintf("waste_type = $%d", len(args)+1))
		args = append(args, filter.WasteType)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("pickup_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("pickup_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", pickupRequestColumns, baseQuery, pageSize, offset)

	var requests []models.PickupRequest
	if err := r.db.SelectContext(ctx, &requests, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list pickup requests: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count pickup requests: %w", err)
	}
	return requests, total, nil
}

// UpdateRequest persists owner-editable request fields.
func (r *PickupRepository) UpdateRequest(ctx context.Context, req *models.PickupRequest) error {
	const query = `UPDATE pickup_requests SET waste_type = $2, pickup_date = $3, pickup_time = $4, address = $5, latitude = $6, longitude = $7, instructions = $8, quantity_estimate = $9, updated_at = $10 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		req.ID, req.WasteType, req.PickupDate, req.PickupTime, req.Address,
		req.Latitude, req.Longitude, req.Instructions, req.QuantityEstimate, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pickup request: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteRequest removes a pickup request.
func (r *PickupRepository) DeleteRequest(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pickup_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pickup request: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AssignCollector sets the collector, moves the request to scheduled and
// records the requester notification in a single transaction.
func (r *PickupRepository) AssignCollector(ctx context.Context, requestID, collectorID string, notification *models.Notification) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assign collector transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateQuery = `UPDATE pickup_requests SET collector_id = $2, status = $3, updated_at = $4 WHERE id = $1`
	var res sql.Result
	if res, err = tx.ExecContext(ctx, updateQuery, requestID, collectorID, models.RequestScheduled, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign collector: %w", err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = insertNotificationTx(ctx, tx, notification); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit assign collector: %w", err)
	}
	return nil
}

// ListAllRequests returns every request without pagination, used by the
// staff export.
func (r *PickupRepository) ListAllRequests(ctx context.Context, filter models.PickupRequestFilter) ([]models.PickupRequest, error) {
	baseQuery := `FROM pickup_requests WHERE 1=1`
	var args []interface{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		baseQuery += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", pickupRequestColumns, baseQuery)
	var requests []models.PickupRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list pickup requests for export: %w", err)
	}
	return requests, nil
}

const pickupColumns = `id, waste_report_id, scheduled_date, status, notes, created_at, updated_at`

// CreatePickup inserts a scheduling entity for a waste report.
func (r *PickupRepository) CreatePickup(ctx context.Context, pickup *models.Pickup) error {
	const query = `INSERT INTO pickups (id, waste_report_id, scheduled_date, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, pickup.ID, pickup.WasteReportID, pickup.ScheduledDate, pickup.Status, pickup.Notes, pickup.CreatedAt, pickup.UpdatedAt); err != nil {
		return fmt.Errorf("create pickup: %w", err)
	}
	return nil
}

// FindPickupByID returns a pickup by identifier.
func (r *PickupRepository) FindPickupByID(ctx context.Context, id string) (*models.Pickup, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickups WHERE id = $1 LIMIT 1`
	var pickup models.Pickup
	if err := r.db.GetContext(ctx, &pickup, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find pickup: %w", err)
	}
	return &pickup, nil
}

// ListPickups returns pickups, optionally restricted to reports owned by a
// user.
func (r *PickupRepository) ListPickups(ctx context.Context, ownerID string) ([]models.Pickup, error) {
	if ownerID == "" {
		query := `SELECT ` + pickupColumns + ` FROM pickups ORDER BY scheduled_date DESC`
		var pickups []models.Pickup
		if err := r.db.SelectContext(ctx, &pickups, query); err != nil {
			return nil, fmt.Errorf("list pickups: %w", err)
		}
		return pickups, nil
	}

	const query = `SELECT p.id, p.waste_report_id, p.scheduled_date, p.status, p.notes, p.created_at, p.updated_at
FROM pickups p
JOIN waste_reports w ON w.id = p.waste_report_id
WHERE w.user_id = $1
ORDER BY p.scheduled_date DESC`
	var pickups []models.Pickup
	if err := r.db.SelectContext(ctx, &pickups, query, ownerID); err != nil {
		return nil, fmt.Errorf("list pickups by owner: %w", err)
	}
	return pickups, nil
}

// UpdatePickup persists pickup scheduling changes.
func (r *PickupRepository) UpdatePickup(ctx context.Context, pickup *models.Pickup) error {
	const query = `UPDATE pickups SET scheduled_date = $2, status = $3, notes = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, pickup.ID, pickup.ScheduledDate, pickup.Status, pickup.Notes, pickup.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pickup: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePickup removes a pickup.
func (r *PickupRepository) DeletePickup(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pickups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pickup: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
