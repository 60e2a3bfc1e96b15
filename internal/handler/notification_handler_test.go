package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/middleware"
	"github.com/wastewise/wastewise-api/internal/models"
	"github.com/wastewise/wastewise-api/internal/service"
)

type feedNotifRepo struct {
	byUser map[string][]models.Notification
	unread map[string]int
	marked []string
}

func (f *feedNotifRepo) Create(context.Context, *models.Notification) error { return nil }

func (f *feedNotifRepo) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	items := f.byUser[userID]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *feedNotifRepo) MarkRead(_ context.Context, id, userID string) error {
	f.marked = append(f.marked, id)
	return nil
}

func (f *feedNotifRepo) MarkAllRead(_ context.Context, userID string) error {
	f.unread[userID] = 0
	return nil
}

func (f *feedNotifRepo) UnreadCount(_ context.Context, userID string) (int, error) {
	return f.unread[userID], nil
}

func (f *feedNotifRepo) ListByReference(context.Context, string) ([]models.Notification, error) {
	return nil, nil
}

type feedEnvelope struct {
	Data []models.Notification  `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

func TestNotificationHandlerListIncludesUnreadCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &feedNotifRepo{
		byUser: map[string][]models.Notification{
			"user-1": {
				{ID: "n-1", UserID: "user-1", Title: "Report Status Update"},
				{ID: "n-2", UserID: "user-1", Title: "Pickup Scheduled", IsRead: true},
			},
		},
		unread: map[string]int{"user-1": 1},
	}
	handler := NewNotificationHandler(service.NewNotificationService(repo, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope feedEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, float64(1), envelope.Meta["unread_count"])
}

func TestNotificationHandlerMarkRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &feedNotifRepo{byUser: map[string][]models.Notification{}, unread: map[string]int{}}
	handler := NewNotificationHandler(service.NewNotificationService(repo, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/notifications/n-1/mark_as_read", nil)
	c.Params = gin.Params{{Key: "id", Value: "n-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})

	handler.MarkRead(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"n-1"}, repo.marked)
}

func TestNotificationHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &feedNotifRepo{byUser: map[string][]models.Notification{}, unread: map[string]int{}}
	handler := NewNotificationHandler(service.NewNotificationService(repo, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications", nil)

	handler.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
