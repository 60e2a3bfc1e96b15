package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// NotificationRepository provides database access for notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, title, message, notification_type, is_read, reference_id, created_at`

// Create inserts a notification outside of any workflow transaction.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create notification: %w", err)
	}
	if err := insertNotificationTx(ctx, tx, n); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create notification: %w", err)
	}
	return nil
}

// ListByUser returns the user's notifications newest first, capped at limit.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT %d", notificationColumns, limit)
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips is_read for a notification owned by userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllRead flips is_read for every unread notification of the user.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications for the user.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// CountByType groups the user's notifications by type.
func (r *NotificationRepository) CountByType(ctx context.Context, userID string) ([]models.StatusCount, error) {
	const query = `SELECT notification_type AS key, COUNT(*) AS count FROM notifications WHERE user_id = $1 GROUP BY notification_type`
	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, userID); err != nil {
		return nil, fmt.Errorf("count notifications by type: %w", err)
	}
	return counts, nil
}

// ListByReference returns the notifications referencing an entity, oldest
// first, used to build tracking history.
func (r *NotificationRepository) ListByReference(ctx context.Context, referenceID string) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE reference_id = $1 ORDER BY created_at ASC`
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, referenceID); err != nil {
		return nil, fmt.Errorf("list notifications by reference: %w", err)
	}
	return notifications, nil
}
