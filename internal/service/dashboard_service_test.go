package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

// memoryCacheRepo round-trips values through JSON like the redis-backed
// repository does.
type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.entries {
		delete(m.entries, key)
	}
	return nil
}

type fakeAnalyticsRepo struct {
	reportsByStatus []models.StatusCount
	reportsByType   []models.StatusCount
	totalReports    int
	monthlyReports  int
	attention       int
	recentUpdates   []models.WasteReport
	recentReports   []models.WasteReport
	upcoming        []models.PickupRequest
	past            []models.PickupRequest
	pickupsByStatus []models.StatusCount
	pickupsByType   []models.StatusCount
	totalPickups    int
	openPickups     int
	activeUsers     int
	totalUsers      int
	recentUsers     []models.User

	calls      int
	lastUserID string
}

func (f *fakeAnalyticsRepo) CountReportsByStatus(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error) {
	f.calls++
	f.lastUserID = userID
	return f.reportsByStatus, nil
}

func (f *fakeAnalyticsRepo) CountReportsByType(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error) {
	f.calls++
	f.lastUserID = userID
	return f.reportsByType, nil
}

func (f *fakeAnalyticsRepo) CountReports(ctx context.Context, userID string, since *time.Time) (int, error) {
	f.calls++
	if since != nil {
		return f.monthlyReports, nil
	}
	return f.totalReports, nil
}

func (f *fakeAnalyticsRepo) CountAttentionNeeded(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	f.calls++
	return f.attention, nil
}

func (f *fakeAnalyticsRepo) RecentlyUpdatedReports(ctx context.Context, userID string, cutoff time.Time, limit int) ([]models.WasteReport, error) {
	f.calls++
	return f.recentUpdates, nil
}

func (f *fakeAnalyticsRepo) RecentReports(ctx context.Context, userID string, limit int) ([]models.WasteReport, error) {
	f.calls++
	return f.recentReports, nil
}

func (f *fakeAnalyticsRepo) UpcomingPickupRequests(ctx context.Context, userID string, today time.Time) ([]models.PickupRequest, error) {
	f.calls++
	return f.upcoming, nil
}

func (f *fakeAnalyticsRepo) PastPickupRequests(ctx context.Context, userID string, today time.Time, limit int) ([]models.PickupRequest, error) {
	f.calls++
	return f.past, nil
}

func (f *fakeAnalyticsRepo) CountPickupRequestsByStatus(ctx context.Context, userID string) ([]models.StatusCount, error) {
	f.calls++
	f.lastUserID = userID
	return f.pickupsByStatus, nil
}

func (f *fakeAnalyticsRepo) CountPickupRequestsByType(ctx context.Context, userID string) ([]models.StatusCount, error) {
	f.calls++
	f.lastUserID = userID
	return f.pickupsByType, nil
}

func (f *fakeAnalyticsRepo) CountPickupRequests(ctx context.Context, userID string) (int, error) {
	f.calls++
	f.lastUserID = userID
	return f.totalPickups, nil
}

func (f *fakeAnalyticsRepo) CountOpenPickups(ctx context.Context) (int, error) {
	f.calls++
	return f.openPickups, nil
}

func (f *fakeAnalyticsRepo) CountActiveUsers(ctx context.Context, since time.Time) (int, error) {
	f.calls++
	return f.activeUsers, nil
}

func (f *fakeAnalyticsRepo) CountUsers(ctx context.Context) (int, error) {
	f.calls++
	return f.totalUsers, nil
}

func (f *fakeAnalyticsRepo) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	f.calls++
	return f.recentUsers, nil
}

type fakeDashboardUserRepo struct {
	users    map[string]models.User
	profiles map[string]models.UserProfile
}

func (f *fakeDashboardUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDashboardUserRepo) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

type fakeDashboardNotifRepo struct {
	notifications []models.Notification
	unread        int
	byType        []models.StatusCount

	lastLimit int
}

func (f *fakeDashboardNotifRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	f.lastLimit = limit
	return f.notifications, nil
}

func (f *fakeDashboardNotifRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	return f.unread, nil
}

func (f *fakeDashboardNotifRepo) CountByType(ctx context.Context, userID string) ([]models.StatusCount, error) {
	return f.byType, nil
}

func newDashboardServiceForTest(analytics *fakeAnalyticsRepo, cacheRepo CacheRepository) *DashboardService {
	users := &fakeDashboardUserRepo{
		users: map[string]models.User{
			"user-1": {ID: "user-1", Username: "resident", Email: "resident@example.com"},
		},
		profiles: map[string]models.UserProfile{},
	}
	notifs := &fakeDashboardNotifRepo{unread: 2}
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	}
	svc := NewDashboardService(analytics, users, notifs, cache, time.Minute, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestUserDashboardFormatsRates(t *testing.T) {
	analytics := &fakeAnalyticsRepo{
		totalReports:   12,
		monthlyReports: 10,
		reportsByStatus: []models.StatusCount{
			{Key: "pending", Count: 4},
			{Key: "in_progress", Count: 5},
			{Key: "resolved", Count: 3},
		},
		attention:    2,
		totalPickups: 10,
		pickupsByStatus: []models.StatusCount{
			{Key: "completed", Count: 3},
			{Key: "pending", Count: 7},
		},
	}
	svc := newDashboardServiceForTest(analytics, nil)

	resp, err := svc.UserDashboard(context.Background(), userClaims("user-1"))

	require.NoError(t, err)
	assert.Equal(t, "resident", resp.UserInfo.Username)

	assert.Equal(t, 12, resp.ReportsSummary.TotalReports)
	assert.Equal(t, 4, resp.WasteTracking.StatusBreakdown.Pending)
	assert.Equal(t, 2, resp.WasteTracking.StatusBreakdown.AttentionNeeded)
	// resolved(3) of monthly(10) as a display string
	assert.Equal(t, "30.0%", resp.WasteTracking.MonthlyStatistics.ResolutionRate)

	assert.Equal(t, 10, resp.PickupsSummary.Statistics.TotalPickups)
	assert.Equal(t, "30.0%", resp.PickupsSummary.Statistics.CompletionRate)

	assert.Equal(t, 2, resp.Notifications.UnreadCount)
	assert.True(t, resp.Notifications.HasNew)
}

func TestUserDashboardPendingIncludesScheduled(t *testing.T) {
	analytics := &fakeAnalyticsRepo{
		totalPickups: 7,
		pickupsByStatus: []models.StatusCount{
			{Key: "pending", Count: 2},
			{Key: "scheduled", Count: 3},
			{Key: "completed", Count: 2},
		},
	}
	svc := newDashboardServiceForTest(analytics, nil)

	resp, err := svc.UserDashboard(context.Background(), userClaims("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 5, resp.PickupsSummary.Statistics.PendingPickups, "scheduled requests are still pending work")
	assert.Equal(t, 2, resp.PickupsSummary.Statistics.CompletedPickups)
}

func TestUserDashboardRecentNotificationsLimit(t *testing.T) {
	users := &fakeDashboardUserRepo{
		users: map[string]models.User{
			"user-1": {ID: "user-1", Username: "resident", Email: "resident@example.com"},
		},
		profiles: map[string]models.UserProfile{},
	}
	notifs := &fakeDashboardNotifRepo{unread: 1}
	svc := NewDashboardService(&fakeAnalyticsRepo{}, users, notifs, nil, time.Minute, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	}

	_, err := svc.UserDashboard(context.Background(), userClaims("user-1"))

	require.NoError(t, err)
	assert.Equal(t, 10, notifs.lastLimit)
}

func TestUserDashboardZeroActivity(t *testing.T) {
	svc := newDashboardServiceForTest(&fakeAnalyticsRepo{}, nil)

	resp, err := svc.UserDashboard(context.Background(), userClaims("user-1"))

	require.NoError(t, err)
	assert.Equal(t, "0.0%", resp.WasteTracking.MonthlyStatistics.ResolutionRate)
	assert.Equal(t, "0.0%", resp.PickupsSummary.Statistics.CompletionRate)
	assert.Equal(t, 0, resp.ReportsSummary.TotalReports)
}

func TestUserDashboardCacheHitSkipsRepositories(t *testing.T) {
	analytics := &fakeAnalyticsRepo{totalReports: 3}
	svc := newDashboardServiceForTest(analytics, newMemoryCacheRepo())

	_, err := svc.UserDashboard(context.Background(), userClaims("user-1"))
	require.NoError(t, err)
	firstCalls := analytics.calls
	require.Greater(t, firstCalls, 0)

	resp, err := svc.UserDashboard(context.Background(), userClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ReportsSummary.TotalReports)
	assert.Equal(t, firstCalls, analytics.calls, "a cache hit must not touch the repositories")
}

func TestAdminDashboardStaffOnly(t *testing.T) {
	analytics := &fakeAnalyticsRepo{totalReports: 40, openPickups: 6, activeUsers: 11}
	svc := newDashboardServiceForTest(analytics, nil)

	_, err := svc.AdminDashboard(context.Background(), userClaims("user-1"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Zero(t, analytics.calls)

	resp, err := svc.AdminDashboard(context.Background(), staffClaims())
	require.NoError(t, err)
	assert.Equal(t, 40, resp.TotalReports)
	assert.Equal(t, 6, resp.PendingPickups)
	assert.Equal(t, 11, resp.ActiveUsers)
}

func TestAdminStatsStaffOnly(t *testing.T) {
	analytics := &fakeAnalyticsRepo{
		totalUsers:   25,
		totalReports: 40,
		totalPickups: 14,
		recentUsers:  []models.User{{ID: "u1", Username: "newest", Role: models.RoleUser}},
		reportsByStatus: []models.StatusCount{
			{Key: "pending", Count: 30},
			{Key: "resolved", Count: 10},
		},
	}
	svc := newDashboardServiceForTest(analytics, nil)

	_, err := svc.AdminStats(context.Background(), userClaims("user-1"))
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	resp, err := svc.AdminStats(context.Background(), staffClaims())
	require.NoError(t, err)
	assert.Equal(t, 25, resp.TotalUsers)
	assert.Equal(t, 40, resp.TotalWasteReports)
	assert.Equal(t, 14, resp.TotalPickups)
	require.Len(t, resp.RecentUsers, 1)
	assert.Equal(t, "newest", resp.RecentUsers[0].Username)
	assert.Equal(t, 30, resp.WasteReportsByStatus["pending"])
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.0, ratio(3, 0), "zero totals must not divide")
	assert.Equal(t, 50.0, ratio(2, 4))
	assert.InDelta(t, 33.3, ratio(1, 3), 0.05)
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0.0%", formatRate(0))
	assert.Equal(t, "33.3%", formatRate(ratio(1, 3)))
	assert.Equal(t, "100.0%", formatRate(100))
}
