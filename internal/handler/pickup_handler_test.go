package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/middleware"
	"github.com/wastewise/wastewise-api/internal/models"
	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type assignPickupRepo struct {
	requests    map[string]*models.PickupRequest
	assignCalls int
}

func (f *assignPickupRepo) CreateRequest(context.Context, *models.PickupRequest) error { return nil }

func (f *assignPickupRepo) FindRequestByID(_ context.Context, id string) (*models.PickupRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return request, nil
}

func (f *assignPickupRepo) ListRequests(context.Context, models.PickupRequestFilter) ([]models.PickupRequest, int, error) {
	return nil, 0, nil
}

func (f *assignPickupRepo) UpdateRequest(context.Context, *models.PickupRequest) error { return nil }
func (f *assignPickupRepo) DeleteRequest(context.Context, string) error                { return nil }

func (f *assignPickupRepo) AssignCollector(_ context.Context, requestID, collectorID string, _ *models.Notification) error {
	f.assignCalls++
	return nil
}

func (f *assignPickupRepo) CreatePickup(context.Context, *models.Pickup) error { return nil }

func (f *assignPickupRepo) FindPickupByID(context.Context, string) (*models.Pickup, error) {
	return nil, sql.ErrNoRows
}

func (f *assignPickupRepo) ListPickups(context.Context, string) ([]models.Pickup, error) {
	return nil, nil
}

func (f *assignPickupRepo) UpdatePickup(context.Context, *models.Pickup) error { return nil }
func (f *assignPickupRepo) DeletePickup(context.Context, string) error         { return nil }

type collectorLookup struct {
	collectors map[string]*models.WasteCollector
}

func (f *collectorLookup) FindByID(_ context.Context, id string) (*models.WasteCollector, error) {
	collector, ok := f.collectors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return collector, nil
}

type reportLookup struct{}

func (reportLookup) FindByID(context.Context, string) (*models.WasteReport, error) {
	return nil, sql.ErrNoRows
}

func newAssignPickupHandler(repo *assignPickupRepo, collectors *collectorLookup) *PickupHandler {
	svc := service.NewPickupService(repo, collectors, reportLookup{}, noopNotifier{}, nil, nil, nil)
	return NewPickupHandler(svc, nil, nil, nil)
}

func assignCollectorRequest(c *gin.Context, requestID, body string) {
	c.Request = httptest.NewRequest(http.MethodPost, "/pickup-requests/"+requestID+"/assign_collector", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: requestID}}
}

func TestPickupHandlerAssignCollectorSuccessBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &assignPickupRepo{requests: map[string]*models.PickupRequest{
		"req-1": {ID: "req-1", UserID: "user-1", PickupDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), Status: models.RequestPending},
	}}
	collectors := &collectorLookup{collectors: map[string]*models.WasteCollector{
		"col-1": {ID: "col-1", Name: "Dump Truck 7", IsAvailable: true},
	}}
	handler := newAssignPickupHandler(repo, collectors)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assignCollectorRequest(c, "req-1", `{"collector_id":"col-1"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.AssignCollector(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Collector assigned successfully", envelope.Data["status"])
	assert.Equal(t, 1, repo.assignCalls)
}

func TestPickupHandlerAssignCollectorUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &assignPickupRepo{requests: map[string]*models.PickupRequest{
		"req-1": {ID: "req-1", UserID: "user-1", PickupDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), Status: models.RequestPending},
	}}
	collectors := &collectorLookup{collectors: map[string]*models.WasteCollector{
		"col-busy": {ID: "col-busy", Name: "Dump Truck 9", IsAvailable: false},
	}}
	handler := newAssignPickupHandler(repo, collectors)

	// A busy collector and a nonexistent one produce the same answer.
	for _, collectorID := range []string{"col-busy", "col-missing"} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		assignCollectorRequest(c, "req-1", `{"collector_id":"`+collectorID+`"}`)
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

		handler.AssignCollector(c)

		require.Equal(t, http.StatusNotFound, rec.Code, collectorID)
		var envelope errorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		require.NotNil(t, envelope.Error, collectorID)
		assert.Equal(t, appErrors.ErrCollectorUnavailable.Code, envelope.Error.Code, collectorID)
	}
	assert.Zero(t, repo.assignCalls)
}

func TestPickupHandlerAssignCollectorForbiddenForResidents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &assignPickupRepo{requests: map[string]*models.PickupRequest{}}
	handler := newAssignPickupHandler(repo, &collectorLookup{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assignCollectorRequest(c, "req-1", `{"collector_id":"col-1"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})

	handler.AssignCollector(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, repo.assignCalls)
}
