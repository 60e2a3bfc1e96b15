package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// ReportRepository provides database access for waste reports and media.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, user_id, title, description, waste_type, quantity, latitude, longitude, address, status, assigned_team_id, created_at, updated_at`

// Create persists a report and its media records in one transaction.
func (r *ReportRepository) Create(ctx context.Context, report *models.WasteReport, media []models.WasteReportMedia) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertReport = `INSERT INTO waste_reports (id, user_id, title, description, waste_type, quantity, latitude, longitude, address, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err = tx.ExecContext(ctx, insertReport,
		report.ID, report.UserID, report.Title, report.Description, report.WasteType,
		report.Quantity, report.Latitude, report.Longitude, report.Address,
		report.Status, report.CreatedAt, report.UpdatedAt); err != nil {
		return fmt.Errorf("insert waste report: %w", err)
	}

	const insertMedia = `INSERT INTO waste_report_media (id, report_id, media_type, file_path, uploaded_at)
VALUES ($1, $2, $3, $4, $5)`
	for _, m := range media {
		if _, err = tx.ExecContext(ctx, insertMedia, m.ID, m.ReportID, m.MediaType, m.FilePath, m.UploadedAt); err != nil {
			return fmt.Errorf("insert report media: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit waste report: %w", err)
	}
	return nil
}

// FindByID returns a report with its media attachments.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.WasteReport, error) {
	query := `SELECT ` + reportColumns + ` FROM waste_reports WHERE id = $1 LIMIT 1`
	var report models.WasteReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find waste report: %w", err)
	}

	const mediaQuery = `SELECT id, report_id, media_type, file_path, uploaded_at FROM waste_report_media WHERE report_id = $1 ORDER BY uploaded_at ASC`
	if err := r.db.SelectContext(ctx, &report.Media, mediaQuery, id); err != nil {
		return nil, fmt.Errorf("load report media: %w", err)
	}
	return &report, nil
}

// List returns reports matching the filter with total count, newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.WasteReport, int, error) {
	baseQuery := `FROM waste_reports WHERE 1=1`
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", reportColumns, baseQuery, pageSize, offset)

	var reports []models.WasteReport
	if err := r.db.SelectContext(ctx, &reports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list waste reports: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count waste reports: %w", err)
	}
	return reports, total, nil
}

// Update persists owner-editable report fields.
func (r *ReportRepository) Update(ctx context.Context, report *models.WasteReport) error {
	const query = `UPDATE waste_reports SET title = $2, description = $3, waste_type = $4, quantity = $5, latitude = $6, longitude = $7, address = $8, updated_at = $9 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		report.ID, report.Title, report.Description, report.WasteType,
		report.Quantity, report.Latitude, report.Longitude, report.Address, report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update waste report: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a report; media rows cascade at the database level.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM waste_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete waste report: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AssignTeam sets the assigned team, moves the report to in_progress and
// records the owner notification in a single transaction so the status
// change and its side effect land together or not at all.
func (r *ReportRepository) AssignTeam(ctx context.Context, reportID, teamID string, notification *models.Notification) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assign team transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateQuery = `UPDATE waste_reports SET assigned_team_id = $2, status = $3, updated_at = $4 WHERE id = $1`
	var res sql.Result
	if res, err = tx.ExecContext(ctx, updateQuery, reportID, teamID, models.ReportInProgress, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign team: %w", err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = insertNotificationTx(ctx, tx, notification); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit assign team: %w", err)
	}
	return nil
}

// FindMediaByID returns a single media record.
func (r *ReportRepository) FindMediaByID(ctx context.Context, id string) (*models.WasteReportMedia, error) {
	const query = `SELECT id, report_id, media_type, file_path, uploaded_at FROM waste_report_media WHERE id = $1 LIMIT 1`
	var media models.WasteReportMedia
	if err := r.db.GetContext(ctx, &media, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find report media: %w", err)
	}
	return &media, nil
}

// ListAll returns every report matching the filter without pagination, used
// by the staff export.
func (r *ReportRepository) ListAll(ctx context.Context, filter models.ReportFilter) ([]models.WasteReport, error) {
	baseQuery := `FROM waste_reports WHERE 1=1`
	var args []interface{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		baseQuery += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC", reportColumns, baseQuery)
	var reports []models.WasteReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list waste reports for export: %w", err)
	}
	return reports, nil
}

func insertNotificationTx(ctx context.Context, tx *sqlx.Tx, n *models.Notification) error {
	if n == nil {
		return nil
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, user_id, title, message, notification_type, is_read, reference_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.ReferenceID, n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
