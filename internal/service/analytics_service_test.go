package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

func newAnalyticsServiceForTest(repo *fakeAnalyticsRepo, cacheRepo CacheRepository) *AnalyticsService {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	}
	svc := NewAnalyticsService(repo, cache, time.Minute, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestAnalyticsStaffOnly(t *testing.T) {
	repo := &fakeAnalyticsRepo{totalPickups: 10}
	svc := newAnalyticsServiceForTest(repo, nil)

	_, err := svc.ReportAnalytics(context.Background(), userClaims("regular-user"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	_, err = svc.PickupAnalytics(context.Background(), userClaims("regular-user"))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	assert.Zero(t, repo.calls, "a rejected caller must not reach the repositories")
}

func TestAnalyticsAggregatesGlobally(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		lastUserID:   "sentinel",
		totalPickups: 4,
	}
	svc := newAnalyticsServiceForTest(repo, nil)

	_, err := svc.ReportAnalytics(context.Background(), staffClaims())
	require.NoError(t, err)
	assert.Empty(t, repo.lastUserID, "report analytics must not scope to the caller")

	repo.lastUserID = "sentinel"
	_, err = svc.PickupAnalytics(context.Background(), staffClaims())
	require.NoError(t, err)
	assert.Empty(t, repo.lastUserID, "pickup analytics must not scope to the caller")
}

func TestPickupAnalyticsRawCompletionRate(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		totalPickups: 10,
		pickupsByStatus: []models.StatusCount{
			{Key: "completed", Count: 3},
			{Key: "pending", Count: 5},
			{Key: "cancelled", Count: 2},
		},
		pickupsByType: []models.StatusCount{
			{Key: "organic", Count: 6},
			{Key: "plastic", Count: 4},
		},
	}
	svc := newAnalyticsServiceForTest(repo, nil)

	resp, err := svc.PickupAnalytics(context.Background(), staffClaims())

	require.NoError(t, err)
	assert.Equal(t, 10, resp.TotalPickups)
	assert.Equal(t, 3, resp.CompletedPickups)
	assert.Equal(t, 5, resp.PendingPickups)
	// Raw float here; the dashboard renders the same ratio as "30.0%".
	assert.Equal(t, 30.0, resp.CompletionRate)
	assert.Equal(t, 6, resp.WasteTypeDistribution["organic"])
}

func TestPickupAnalyticsPendingIncludesScheduled(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		totalPickups: 7,
		pickupsByStatus: []models.StatusCount{
			{Key: "pending", Count: 2},
			{Key: "scheduled", Count: 3},
			{Key: "completed", Count: 2},
		},
	}
	svc := newAnalyticsServiceForTest(repo, nil)

	resp, err := svc.PickupAnalytics(context.Background(), staffClaims())

	require.NoError(t, err)
	assert.Equal(t, 5, resp.PendingPickups, "scheduled requests are still pending work")
	assert.Equal(t, 2, resp.CompletedPickups)
}

func TestPickupAnalyticsZeroTotal(t *testing.T) {
	svc := newAnalyticsServiceForTest(&fakeAnalyticsRepo{}, nil)

	resp, err := svc.PickupAnalytics(context.Background(), staffClaims())

	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.CompletionRate)
	assert.Equal(t, 0, resp.TotalPickups)
}

func TestReportAnalyticsDistributions(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		reportsByType: []models.StatusCount{
			{Key: "plastic", Count: 7},
			{Key: "organic", Count: 2},
		},
		reportsByStatus: []models.StatusCount{
			{Key: "pending", Count: 4},
			{Key: "resolved", Count: 5},
		},
	}
	svc := newAnalyticsServiceForTest(repo, nil)

	resp, err := svc.ReportAnalytics(context.Background(), staffClaims())

	require.NoError(t, err)
	assert.Equal(t, 7, resp.WasteTypeDistribution["plastic"])
	assert.Equal(t, 5, resp.StatusDistribution["resolved"])
}

func TestReportAnalyticsCacheHit(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		reportsByType: []models.StatusCount{{Key: "plastic", Count: 1}},
	}
	svc := newAnalyticsServiceForTest(repo, newMemoryCacheRepo())

	_, err := svc.ReportAnalytics(context.Background(), staffClaims())
	require.NoError(t, err)
	first := repo.calls

	resp, err := svc.ReportAnalytics(context.Background(), staffClaims())
	require.NoError(t, err)
	assert.Equal(t, first, repo.calls)
	assert.Equal(t, 1, resp.WasteTypeDistribution["plastic"])
}
