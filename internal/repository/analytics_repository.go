package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// AnalyticsRepository runs the aggregate queries behind dashboards and
// analytics endpoints. All queries are read-only.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CountReportsByStatus groups reports by status, optionally scoped to a user
// and a creation cutoff.
func (r *AnalyticsRepository) CountReportsByStatus(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error) {
	query := `SELECT status AS key, COUNT(*) AS count FROM waste_reports WHERE 1=1`
	var args []interface{}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " GROUP BY status"

	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count reports by status: %w", err)
	}
	return counts, nil
}

// CountReportsByType groups reports by waste type with the same scoping as
// CountReportsByStatus.
func (r *AnalyticsRepository) CountReportsByType(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error) {
	query := `SELECT waste_type AS key, COUNT(*) AS count FROM waste_reports WHERE 1=1`
	var args []interface{}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " GROUP BY waste_type"

	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count reports by type: %w", err)
	}
	return counts, nil
}

// CountReports returns the number of reports, optionally scoped to a user
// and a creation cutoff.
func (r *AnalyticsRepository) CountReports(ctx context.Context, userID string, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM waste_reports WHERE 1=1`
	var args []interface{}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return count, nil
}

// CountAttentionNeeded counts the user's reports still pending at or before
// the cutoff.
func (r *AnalyticsRepository) CountAttentionNeeded(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM waste_reports WHERE user_id = $1 AND status = $2 AND created_at <= $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, models.ReportPending, cutoff); err != nil {
		return 0, fmt.Errorf("count attention needed: %w", err)
	}
	return count, nil
}

// RecentlyUpdatedReports returns the user's reports touched since the cutoff,
// excluding rows never modified after creation, newest update first.
func (r *AnalyticsRepository) RecentlyUpdatedReports(ctx context.Context, userID string, cutoff time.Time, limit int) ([]models.WasteReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM waste_reports
WHERE user_id = $1 AND updated_at >= $2 AND updated_at <> created_at
ORDER BY updated_at DESC LIMIT %d`, reportColumns, limit)
	var reports []models.WasteReport
	if err := r.db.SelectContext(ctx, &reports, query, userID, cutoff); err != nil {
		return nil, fmt.Errorf("list recently updated reports: %w", err)
	}
	return reports, nil
}

// RecentReports returns the newest reports, optionally scoped to a user.
func (r *AnalyticsRepository) RecentReports(ctx context.Context, userID string, limit int) ([]models.WasteReport, error) {
	query := `SELECT ` + reportColumns + ` FROM waste_reports WHERE 1=1`
	var args []interface{}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	var reports []models.WasteReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list recent reports: %w", err)
	}
	return reports, nil
}

// UpcomingPickupRequests returns the user's open requests dated today or
// later, soonest first.
func (r *AnalyticsRepository) UpcomingPickupRequests(ctx context.Context, userID string, today time.Time) ([]models.PickupRequest, error) {
	query := `SELECT ` + pickupRequestColumns + ` FROM pickup_requests
WHERE user_id = $1 AND pickup_date >= $2 AND status IN ($3, $4, $5)
ORDER BY pickup_date ASC, pickup_time ASC`
	var requests []models.PickupRequest
	if err := r.db.SelectContext(ctx, &requests, query, userID, today,
		models.RequestPending, models.RequestScheduled, models.RequestInProgress); err != nil {
		return nil, fmt.Errorf("list upcoming pickup requests: %w", err)
	}
	return requests, nil
}

// PastPickupRequests returns the user's requests dated before today, most
// recent first.
func (r *AnalyticsRepository) PastPickupRequests(ctx context.Context, userID string, today time.Time, limit int) ([]models.PickupRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM pickup_requests
WHERE user_id = $1 AND pickup_date < $2
ORDER BY pickup_date DESC, pickup_time DESC LIMIT %d`, pickupRequestColumns, limit)
	var requests []models.PickupRequest
	if err := r.db.SelectContext(ctx, &requests, query, userID, today); err != nil {
		return nil, fmt.Errorf("list past pickup requests: %w", err)
	}
	return requests, nil
}

// CountPickupRequestsByStatus groups pickup requests by status, optionally
// scoped to a user.
func (r *AnalyticsRepository) CountPickupRequestsByStatus(ctx context.Context, userID string) ([]models.StatusCount, error) {
	query := `SELECT status AS key, COUNT(*) AS count FROM pickup_requests WHERE 1=1`
	var args []interface{}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query += " GROUP BY status"

	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count pickup requests by status: %w", err)
	}
	return counts, nil
}

// CountPickupRequestsByType groups pickup requests by waste type, optionally
// scoped to a user.
func (r *AnalyticsRepository) CountPickupRequestsByType(ctx context.Context, userID string) ([]models.StatusCount, error) {
	query := `SELECT waste_type AS key, COUNT(*) AS count FROM pickup_requests WHERE 1=1`
	var args []interface{}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query += " GROUP BY waste_type"

	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("count pickup requests by type: %w", err)
	}
	return counts, nil
}

// CountPickupRequests returns the number of pickup requests, optionally
// scoped to a user.
func (r *AnalyticsRepository) CountPickupRequests(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM pickup_requests WHERE 1=1`
	var args []interface{}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count pickup requests: %w", err)
	}
	return count, nil
}

// CountOpenPickups counts scheduling entities still scheduled or in progress.
func (r *AnalyticsRepository) CountOpenPickups(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM pickups WHERE status IN ($1, $2)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, models.PickupScheduled, models.PickupInProgress); err != nil {
		return 0, fmt.Errorf("count open pickups: %w", err)
	}
	return count, nil
}

// CountActiveUsers counts distinct users who filed a report since the cutoff.
func (r *AnalyticsRepository) CountActiveUsers(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(DISTINCT user_id) FROM waste_reports WHERE created_at >= $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return count, nil
}

// CountUsers returns the total number of registered users.
func (r *AnalyticsRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// RecentUsers returns the newest registrations.
func (r *AnalyticsRepository) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY created_at DESC LIMIT %d", userColumns, limit)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list recent users: %w", err)
	}
	return users, nil
}
