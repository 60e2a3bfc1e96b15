package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/models"
)

func newPickupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPickupRepositoryCreateRequest(t *testing.T) {
	db, mock, cleanup := newPickupMock(t)
	defer cleanup()
	repo := NewPickupRepository(db)

	mock.ExpectExec("INSERT INTO pickup_requests").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.PickupRequest{
		ID: "req-1", UserID: "user-1", WasteType: models.WasteOrganic,
		PickupDate: time.Now().AddDate(0, 0, 1), PickupTime: "09:00",
		Address: "Main St", Status: models.RequestPending,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateRequest(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepositoryAssignCollectorCommitsNotification(t *testing.T) {
	db, mock, cleanup := newPickupMock(t)
	defer cleanup()
	repo := NewPickupRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pickup_requests SET collector_id = $2, status = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("req-1", "collector-1", models.RequestScheduled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "user-1", sqlmock.AnyArg(), sqlmock.AnyArg(), models.NotifyPickupStatus, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	refID := "req-1"
	notification := &models.Notification{
		UserID:      "user-1",
		Title:       "Pickup Scheduled",
		Message:     "A collector has been assigned to your pickup request",
		Type:        models.NotifyPickupStatus,
		ReferenceID: &refID,
	}

	require.NoError(t, repo.AssignCollector(context.Background(), "req-1", "collector-1", notification))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepositoryAssignCollectorRollsBackOnMissingRequest(t *testing.T) {
	db, mock, cleanup := newPickupMock(t)
	defer cleanup()
	repo := NewPickupRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pickup_requests SET collector_id = $2, status = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("missing", "collector-1", models.RequestScheduled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.AssignCollector(context.Background(), "missing", "collector-1", &models.Notification{UserID: "user-1"})
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepositoryListRequestsWithDateRange(t *testing.T) {
	db, mock, cleanup := newPickupMock(t)
	defer cleanup()
	repo := NewPickupRepository(db)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "waste_type", "pickup_date", "pickup_time", "address", "latitude", "longitude", "instructions", "quantity_estimate", "status", "collector_id", "created_at", "updated_at"}).
		AddRow("req-1", "user-1", "organic", from, "09:00", "Main St", 1.1, 2.2, "", 3.0, "pending", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+pickupRequestColumns+" FROM pickup_requests WHERE 1=1 AND status = $1 AND pickup_date >= $2 AND pickup_date <= $3 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(models.RequestPending, from, to).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM pickup_requests WHERE 1=1 AND status = $1 AND pickup_date >= $2 AND pickup_date <= $3")).
		WithArgs(models.RequestPending, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	requests, total, err := repo.ListRequests(context.Background(), models.PickupRequestFilter{
		Status: models.RequestPending, DateFrom: &from, DateTo: &to,
	})
	require.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepositoryDeleteRequestMissing(t *testing.T) {
	db, mock, cleanup := newPickupMock(t)
	defer cleanup()
	repo := NewPickupRepository(db)

	mock.ExpectExec("DELETE FROM pickup_requests").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Equal(t, sql.ErrNoRows, repo.DeleteRequest(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
