package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/middleware"
	"github.com/wastewise/wastewise-api/internal/models"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type assignReportRepo struct {
	reports     map[string]*models.WasteReport
	assignCalls int
}

func (f *assignReportRepo) Create(context.Context, *models.WasteReport, []models.WasteReportMedia) error {
	return nil
}

func (f *assignReportRepo) FindByID(_ context.Context, id string) (*models.WasteReport, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return report, nil
}

func (f *assignReportRepo) List(context.Context, models.ReportFilter) ([]models.WasteReport, int, error) {
	return nil, 0, nil
}

func (f *assignReportRepo) Update(context.Context, *models.WasteReport) error { return nil }
func (f *assignReportRepo) Delete(context.Context, string) error              { return nil }

func (f *assignReportRepo) AssignTeam(_ context.Context, reportID, teamID string, _ *models.Notification) error {
	f.assignCalls++
	return nil
}

func (f *assignReportRepo) FindMediaByID(context.Context, string) (*models.WasteReportMedia, error) {
	return nil, sql.ErrNoRows
}

type teamLookup struct {
	teams map[string]*models.CleanupTeam
}

func (f *teamLookup) FindByID(_ context.Context, id string) (*models.CleanupTeam, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return team, nil
}

type noopNotifier struct{}

func (noopNotifier) Create(context.Context, *models.Notification) error { return nil }

type errorEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *appErrors.Error       `json:"error"`
}

func newAssignTestHandler(repo *assignReportRepo) *ReportHandler {
	svc := service.NewReportService(repo, &teamLookup{teams: map[string]*models.CleanupTeam{
		"team-1": {ID: "team-1", Name: "North District Crew"},
	}}, noopNotifier{}, nil, nil, nil, nil)
	return NewReportHandler(svc, nil, nil, nil, nil)
}

func assignTeamRequest(c *gin.Context, reportID, body string) {
	c.Request = httptest.NewRequest(http.MethodPost, "/waste-reports/"+reportID+"/assign_team", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: reportID}}
}

func TestReportHandlerAssignTeamSuccessBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &assignReportRepo{reports: map[string]*models.WasteReport{
		"rep-1": {ID: "rep-1", UserID: "user-1", Title: "Overflowing bins"},
	}}
	handler := newAssignTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assignTeamRequest(c, "rep-1", `{"team_id":"team-1"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.AssignTeam(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Team assigned successfully", envelope.Data["status"])
	assert.Equal(t, 1, repo.assignCalls)
}

func TestReportHandlerAssignTeamForbiddenForResidents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &assignReportRepo{reports: map[string]*models.WasteReport{
		"rep-1": {ID: "rep-1", UserID: "user-1"},
	}}
	handler := newAssignTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assignTeamRequest(c, "rep-1", `{"team_id":"team-1"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})

	handler.AssignTeam(c)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrForbidden.Code, envelope.Error.Code)
	assert.Zero(t, repo.assignCalls)
}

func TestReportHandlerAssignTeamUnknownReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssignTestHandler(&assignReportRepo{reports: map[string]*models.WasteReport{}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assignTeamRequest(c, "rep-missing", `{"team_id":"team-1"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.AssignTeam(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportHandlerAssignTeamRejectsMissingTeamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssignTestHandler(&assignReportRepo{reports: map[string]*models.WasteReport{}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assignTeamRequest(c, "rep-1", `{}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.AssignTeam(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
