package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type analyticsRepository interface {
	CountReportsByStatus(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error)
	CountReportsByType(ctx context.Context, userID string, since *time.Time) ([]models.StatusCount, error)
	CountPickupRequestsByStatus(ctx context.Context, userID string) ([]models.StatusCount, error)
	CountPickupRequestsByType(ctx context.Context, userID string) ([]models.StatusCount, error)
	CountPickupRequests(ctx context.Context, userID string) (int, error)
}

// AnalyticsService computes the staff-facing analytics payloads over the
// whole dataset. Report analytics cover the trailing 30 days; pickup
// analytics are all-time.
type AnalyticsService struct {
	repo     analyticsRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger

	now func() time.Time
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// ReportAnalytics returns system-wide report distributions for the last 30
// days. Staff only.
func (s *AnalyticsService) ReportAnalytics(ctx context.Context, actor *models.JWTClaims) (*dto.ReportAnalyticsResponse, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may view report analytics")
	}

	const cacheKey = "analytics:admin:reports"
	var cached dto.ReportAnalyticsResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	since := s.now().UTC().AddDate(0, 0, -30)
	byType, err := s.repo.CountReportsByType(ctx, "", &since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports by type")
	}
	byStatus, err := s.repo.CountReportsByStatus(ctx, "", &since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports by status")
	}

	resp := &dto.ReportAnalyticsResponse{
		WasteTypeDistribution: countsToMap(byType),
		StatusDistribution:    countsToMap(byStatus),
	}
	_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}

// PickupAnalytics returns system-wide all-time pickup request aggregates.
// Staff only. CompletionRate is the raw percentage; the dashboard formats
// the same ratio as a string.
func (s *AnalyticsService) PickupAnalytics(ctx context.Context, actor *models.JWTClaims) (*dto.PickupAnalyticsResponse, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may view pickup analytics")
	}

	const cacheKey = "analytics:admin:pickups"
	var cached dto.PickupAnalyticsResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	total, err := s.repo.CountPickupRequests(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pickup requests")
	}
	byStatus, err := s.repo.CountPickupRequestsByStatus(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pickups by status")
	}
	byType, err := s.repo.CountPickupRequestsByType(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pickups by type")
	}

	statusMap := countsToMap(byStatus)
	completed := statusMap[string(models.RequestCompleted)]
	// A scheduled request is still waiting on the truck, so it counts as
	// pending here.
	pending := statusMap[string(models.RequestPending)] + statusMap[string(models.RequestScheduled)]
	resp := &dto.PickupAnalyticsResponse{
		TotalPickups:          total,
		CompletedPickups:      completed,
		PendingPickups:        pending,
		WasteTypeDistribution: countsToMap(byType),
		CompletionRate:        ratio(completed, total),
	}
	_ = s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}
