package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type dashboardAnalyticsRepository interface {
	CountReportsByStatus(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error)
	CountReportsByType(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error)
	CountReports(ctx context.Context, userID string, since *time.Time) (int, error)
	CountAttentionNeeded(ctx context.Context, userID string, cutoff time.Time) (int, error)
	RecentlyUpdatedReports(ctx context.Context, userID string, cutoff time.Time, limit int) ([]models.WasteReport, error)
	RecentReports(ctx context.Context, userID string, limit int) ([]models.WasteReport, error)
	UpcomingPickupRequests(ctx context.Context, userID string, today time.Time) ([]models.PickupRequest, error)
	PastPickupRequests(ctx context.Context, userID string, today time.Time, limit int) ([]models.PickupRequest, error)
	CountPickupRequestsByStatus(ctx context.Context, userID string) ([]models.StatusCount, error)
	CountPickupRequests(ctx context.Context, userID string) (int, error)
	CountOpenPickups(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context, since time.Time) (int, error)
	CountUsers(ctx context.Context) (int, error)
	RecentUsers(ctx context.Context, limit int) ([]models.User, error)
}

type dashboardUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

type dashboardNotificationRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	CountByType(ctx context.Context, userID string) ([]models.StatusCount, error)
}

// DashboardService aggregates reports, pickups and notifications into the
// user and admin dashboard payloads. Reads come straight from the
// repositories; values in one response may straddle concurrent writes.
type DashboardService struct {
	analytics     dashboardAnalyticsRepository
	users         dashboardUserRepository
	notifications dashboardNotificationRepository
	cache         *CacheService
	cacheTTL      time.Duration
	logger        *zap.Logger

	now func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(analytics dashboardAnalyticsRepository, users dashboardUserRepository, notifications dashboardNotificationRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		analytics: analytics, users: users, notifications: notifications,
		cache: cache, cacheTTL: cacheTTL, logger: logger,
		now: time.Now,
	}
}

// UserDashboard builds the self-service dashboard for the actor.
func (s *DashboardService) UserDashboard(ctx context.Context, actor *models.JWTClaims) (*dto.UserDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:user:%s", actor.UserID)
	var cached dto.UserDashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	resp := &dto.UserDashboardResponse{
		UserInfo: dto.UserInfoSection{Username: user.Username, Email: user.Email},
	}
	if profile, err := s.users.GetProfile(ctx, actor.UserID); err == nil {
		resp.UserInfo.PhoneNumber = profile.PhoneNumber
		resp.UserInfo.Address = profile.Address
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("failed to load user profile", zap.Error(err))
	}

	if err := s.fillReportsSummary(ctx, actor.UserID, resp); err != nil {
		return nil, err
	}
	if err := s.fillWasteTracking(ctx, actor.UserID, resp); err != nil {
		return nil, err
	}
	if err := s.fillPickupsSummary(ctx, actor.UserID, resp); err != nil {
		return nil, err
	}
	if err := s.fillNotifications(ctx, actor.UserID, resp); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}

// AdminDashboard builds the staff-only operations summary.
func (s *DashboardService) AdminDashboard(ctx context.Context, actor *models.JWTClaims) (*dto.AdminDashboardResponse, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin dashboard requires staff role")
	}

	const cacheKey = "dashboard:admin"
	var cached dto.AdminDashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	totalReports, err := s.analytics.CountReports(ctx, "", nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports")
	}
	pendingPickups, err := s.analytics.CountOpenPickups(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count open pickups")
	}
	activeUsers, err := s.analytics.CountActiveUsers(ctx, s.now().UTC().AddDate(0, 0, -30))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active users")
	}
	recent, err := s.analytics.RecentReports(ctx, "", 10)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent reports")
	}

	resp := &dto.AdminDashboardResponse{
		TotalReports:   totalReports,
		PendingPickups: pendingPickups,
		ActiveUsers:    activeUsers,
		RecentReports:  recent,
	}
	_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}

// AdminStats builds the staff-only platform statistics.
func (s *DashboardService) AdminStats(ctx context.Context, actor *models.JWTClaims) (*dto.AdminStatsResponse, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin statistics require staff role")
	}

	const cacheKey = "stats:admin"
	var cached dto.AdminStatsResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	totalUsers, err := s.analytics.CountUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count users")
	}
	totalReports, err := s.analytics.CountReports(ctx, "", nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports")
	}
	totalPickups, err := s.analytics.CountPickupRequests(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pickup requests")
	}
	recentUsers, err := s.analytics.RecentUsers(ctx, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent users")
	}
	reportStatuses, err := s.analytics.CountReportsByStatus(ctx, "", nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports by status")
	}
	pickupStatuses, err := s.analytics.CountPickupRequestsByStatus(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pickups by status")
	}

	users := make([]models.UserInfo, 0, len(recentUsers))
	for _, u := range recentUsers {
		users = append(users, models.UserInfo{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role})
	}

	resp := &dto.AdminStatsResponse{
		TotalUsers:           totalUsers,
		TotalWasteReports:    totalReports,
		TotalPickups:         totalPickups,
		RecentUsers:          users,
		WasteReportsByStatus: countsToMap(reportStatuses),
		PickupsByStatus:      countsToMap(pickupStatuses),
	}
	_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}

func (s *DashboardService) fillReportsSummary(ctx context.Context, userID string, resp *dto.UserDashboardResponse) error {
	total, err := s.analytics.CountReports(ctx, userID, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports")
	}
	byStatus, err := s.analytics.CountReportsByStatus(ctx, userID, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports by status")
	}
	byType, err := s.analytics.CountReportsByType(ctx, userID, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports by type")
	}
	recent, err := s.analytics.RecentReports(ctx, userID, 5)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent reports")
	}

	resp.ReportsSummary = dto.ReportsSummarySection{
		TotalReports:  total,
		ByStatus:      countsToMap(byStatus),
		ByType:        countsToMap(byType),
		RecentReports: recent,
	}
	return nil
}

func (s *DashboardService) fillWasteTracking(ctx context.Context, userID string, resp *dto.UserDashboardResponse) error {
	now := s.now().UTC()
	since30 := now.AddDate(0, 0, -30)
	cutoff7 := now.AddDate(0, 0, -7)

	monthlyTotal, err := s.analytics.CountReports(ctx, userID, &since30)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count monthly reports")
	}
	monthlyByStatus, err := s.analytics.CountReportsByStatus(ctx, userID, &since30)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count monthly reports by status")
	}
	resolved30 := countsToMap(monthlyByStatus)[string(models.ReportResolved)]

	allByStatus := resp.ReportsSummary.ByStatus
	attention, err := s.analytics.CountAttentionNeeded(ctx, userID, cutoff7)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count stale reports")
	}
	recentUpdates, err := s.analytics.RecentlyUpdatedReports(ctx, userID, cutoff7, 5)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent updates")
	}

	resp.WasteTracking = dto.WasteTrackingSection{
		MonthlyStatistics: dto.MonthlyStatistics{
			TotalReports:   monthlyTotal,
			ResolutionRate: formatRate(ratio(resolved30, monthlyTotal)),
		},
		StatusBreakdown: dto.StatusBreakdown{
			Pending:         allByStatus[string(models.ReportPending)],
			InProgress:      allByStatus[string(models.ReportInProgress)],
			Resolved:        allByStatus[string(models.ReportResolved)],
			AttentionNeeded: attention,
		},
		RecentUpdates: recentUpdates,
		Timeline: dto.TrackingTimeline{
			Last30Days:       monthlyTotal,
			PendingOver7Days: attention,
		},
	}
	return nil
}

func (s *DashboardService) fillPickupsSummary(ctx context.Context, userID string, resp *dto.UserDashboardResponse) error {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	upcoming, err := s.analytics.UpcomingPickupRequests(ctx, userID, today)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming pickups")
	}
	past, err := s.analytics.PastPickupRequests(ctx, userID, today, 10)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past pickups")
	}
	byStatus, err := s.analytics.CountPickupRequestsByStatus(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pickups by status")
	}
	total, err := s.analytics.CountPickupRequests(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pickups")
	}

	statusMap := countsToMap(byStatus)
	completed := statusMap[string(models.RequestCompleted)]
	// Scheduled requests are still open work, so they count as pending.
	pending := statusMap[string(models.RequestPending)] + statusMap[string(models.RequestScheduled)]
	resp.PickupsSummary = dto.PickupsSummarySection{
		UpcomingPickups: upcoming,
		PastPickups:     past,
		Statistics: dto.PickupStatistics{
			TotalPickups:     total,
			CompletedPickups: completed,
			PendingPickups:   pending,
			CompletionRate:   formatRate(ratio(completed, total)),
		},
	}
	return nil
}

func (s *DashboardService) fillNotifications(ctx context.Context, userID string, resp *dto.UserDashboardResponse) error {
	recent, err := s.notifications.ListByUser(ctx, userID, 10)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	unread, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}
	byType, err := s.notifications.CountByType(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications by type")
	}

	resp.Notifications = dto.NotificationsSection{
		Recent:      recent,
		UnreadCount: unread,
		ByType:      countsToMap(byType),
		HasNew:      unread > 0,
	}
	return nil
}

func countsToMap(counts []models.StatusCount) map[string]int {
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.Key] = c.Count
	}
	return out
}

// ratio returns part/total as a percentage, 0 when total is 0.
func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// formatRate renders a percentage for dashboard display, e.g. "30.0%".
func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}
