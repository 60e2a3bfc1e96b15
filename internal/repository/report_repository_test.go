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

func newReportMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportRepositoryCreateWithMedia(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO waste_reports").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO waste_report_media").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	report := &models.WasteReport{
		ID: "report-1", UserID: "user-1", Title: "Overflowing bin",
		WasteType: models.WastePlastic, Status: models.ReportPending,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	media := []models.WasteReportMedia{{ID: "media-1", ReportID: "report-1", MediaType: models.MediaImage, FilePath: "reports/report-1/photo.jpg", UploadedAt: time.Now()}}

	require.NoError(t, repo.Create(context.Background(), report, media))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryAssignTeamCommitsNotification(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE waste_reports SET assigned_team_id = $2, status = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("report-1", "team-1", models.ReportInProgress, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "user-1", sqlmock.AnyArg(), sqlmock.AnyArg(), models.NotifyStatusUpdate, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	refID := "report-1"
	notification := &models.Notification{
		UserID:      "user-1",
		Title:       "Report Status Update",
		Message:     "A cleanup team has been assigned to your report",
		Type:        models.NotifyStatusUpdate,
		ReferenceID: &refID,
	}

	require.NoError(t, repo.AssignTeam(context.Background(), "report-1", "team-1", notification))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryAssignTeamRollsBackOnMissingReport(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE waste_reports SET assigned_team_id = $2, status = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("missing", "team-1", models.ReportInProgress, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.AssignTeam(context.Background(), "missing", "team-1", &models.Notification{UserID: "user-1"})
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryList(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "description", "waste_type", "quantity", "latitude", "longitude", "address", "status", "assigned_team_id", "created_at", "updated_at"}).
		AddRow("report-1", "user-1", "Overflowing bin", "Near the market", "plastic", 2.0, 1.1, 2.2, "Main St", "pending", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+reportColumns+" FROM waste_reports WHERE 1=1 AND user_id = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("user-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM waste_reports WHERE 1=1 AND user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	reports, total, err := repo.List(context.Background(), models.ReportFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("UPDATE waste_reports SET").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.WasteReport{ID: "missing"})
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
