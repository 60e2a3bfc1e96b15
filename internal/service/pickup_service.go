package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

const pickupDateLayout = "2006-01-02"

type pickupRepository interface {
	CreateRequest(ctx context.Context, req *models.PickupRequest) error
	FindRequestByID(ctx context.Context, id string) (*models.PickupRequest, error)
	ListRequests(ctx context.Context, filter models.PickupRequestFilter) ([]models.PickupRequest, int, error)
	UpdateRequest(ctx context.Context, req *models.PickupRequest) error
	DeleteRequest(ctx context.Context, id string) error
	AssignCollector(ctx context.Context, requestID, collectorID string, notification *models.Notification) error
	CreatePickup(ctx context.Context, pickup *models.Pickup) error
	FindPickupByID(ctx context.Context, id string) (*models.Pickup, error)
	ListPickups(ctx context.Context, ownerID string) ([]models.Pickup, error)
	UpdatePickup(ctx context.Context, pickup *models.Pickup) error
	DeletePickup(ctx context.Context, id string) error
}

type collectorFinder interface {
	FindByID(ctx context.Context, id string) (*models.WasteCollector, error)
}

type reportFinder interface {
	FindByID(ctx context.Context, id string) (*models.WasteReport, error)
}

// PickupService handles pickup requests, collector assignment and the
// report-linked pickup scheduling entities.
type PickupService struct {
	repo       pickupRepository
	collectors collectorFinder
	reports    reportFinder
	notifier   reportNotifier
	cache      reportCacheInvalidator
	validator  *validator.Validate
	logger     *zap.Logger

	// now is swappable for date-boundary tests.
	now func() time.Time
}

// NewPickupService constructs the pickup service.
func NewPickupService(repo pickupRepository, collectors collectorFinder, reports reportFinder, notifier reportNotifier, cache reportCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *PickupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PickupService{
		repo: repo, collectors: collectors, reports: reports,
		notifier: notifier, cache: cache,
		validator: validate, logger: logger,
		now: time.Now,
	}
}

// CreateRequest validates and persists a pickup request for the actor. The
// pickup date must be today or later, compared date-only on the server
// clock; nothing is persisted when validation fails.
func (s *PickupService) CreateRequest(ctx context.Context, actor *models.JWTClaims, req dto.CreatePickupRequestRequest) (*models.PickupRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pickup request payload")
	}

	pickupDate, err := time.Parse(pickupDateLayout, req.PickupDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pickup_date must use YYYY-MM-DD")
	}
	if pickupDate.Before(s.today()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pickup date cannot be in the past")
	}

	now := s.now().UTC()
	request := &models.PickupRequest{
		ID:               uuid.NewString(),
		UserID:           actor.UserID,
		WasteType:        models.WasteType(req.WasteType),
		PickupDate:       pickupDate,
		PickupTime:       req.PickupTime,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Instructions:     req.Instructions,
		QuantityEstimate: req.QuantityEstimate,
		Status:           models.RequestPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pickup request")
	}

	if s.notifier != nil {
		refID := request.ID
		if err := s.notifier.Create(ctx, &models.Notification{
			UserID:      actor.UserID,
			Title:       "Pickup Request Received",
			Message:     fmt.Sprintf("Your %s pickup request for %s has been received", request.WasteType, req.PickupDate),
			Type:        models.NotifyPickupRequest,
			ReferenceID: &refID,
		}); err != nil {
			s.logger.Warn("failed to create pickup request notification", zap.Error(err))
		}
	}

	s.invalidate(ctx, actor.UserID)
	return request, nil
}

// GetRequest returns a pickup request visible to the actor.
func (s *PickupService) GetRequest(ctx context.Context, actor *models.JWTClaims, id string) (*models.PickupRequest, error) {
	request, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pickup request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pickup request")
	}
	if !actor.IsStaff() && request.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this pickup request")
	}
	return request, nil
}

// ListRequests returns pickup requests. Non-staff actors see only their own
// requests; the status, waste type and date filters apply to staff listings.
func (s *PickupService) ListRequests(ctx context.Context, actor *models.JWTClaims, filter models.PickupRequestFilter) ([]models.PickupRequest, *models.Pagination, error) {
	if !actor.IsStaff() {
		filter = models.PickupRequestFilter{UserID: actor.UserID, Page: filter.Page, PageSize: filter.PageSize}
	}
	requests, total, err := s.repo.ListRequests(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pickup requests")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return requests, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateRequest amends owner-editable request fields. A new pickup date is
// held to the same not-in-the-past rule as creation.
func (s *PickupService) UpdateRequest(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdatePickupRequestRequest) (*models.PickupRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pickup request payload")
	}

	request, err := s.GetRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.PickupDate != nil {
		pickupDate, err := time.Parse(pickupDateLayout, *req.PickupDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "pickup_date must use YYYY-MM-DD")
		}
		if pickupDate.Before(s.today()) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "pickup date cannot be in the past")
		}
		request.PickupDate = pickupDate
	}
	if req.WasteType != nil {
		request.WasteType = models.WasteType(*req.WasteType)
	}
	if req.PickupTime != nil {
		request.PickupTime = *req.PickupTime
	}
	if req.Address != nil {
		request.Address = *req.Address
	}
	if req.Latitude != nil {
		request.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		request.Longitude = *req.Longitude
	}
	if req.Instructions != nil {
		request.Instructions = *req.Instructions
	}
	if req.QuantityEstimate != nil {
		request.QuantityEstimate = *req.QuantityEstimate
	}
	request.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateRequest(ctx, request); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pickup request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pickup request")
	}

	s.invalidate(ctx, request.UserID)
	return request, nil
}

// DeleteRequest removes a pickup request visible to the actor.
func (s *PickupService) DeleteRequest(ctx context.Context, actor *models.JWTClaims, id string) error {
	request, err := s.GetRequest(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRequest(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "pickup request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete pickup request")
	}
	s.invalidate(ctx, request.UserID)
	return nil
}

// AssignCollector is the staff-only workflow transition moving a request to
// scheduled. The collector must exist and be available; a missing or
// unavailable collector is reported identically. The assignment and the
// requester notification commit atomically.
func (s *PickupService) AssignCollector(ctx context.Context, actor *models.JWTClaims, requestID string, req dto.AssignCollectorRequest) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may assign collectors")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	request, err := s.repo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "pickup request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pickup request")
	}

	collector, err := s.collectors.FindByID(ctx, req.CollectorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrCollectorUnavailable, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load collector")
	}
	if !collector.IsAvailable {
		return appErrors.Clone(appErrors.ErrCollectorUnavailable, "")
	}

	refID := request.ID
	notification := &models.Notification{
		UserID:      request.UserID,
		Title:       "Pickup Scheduled",
		Message:     fmt.Sprintf("Collector %s has been assigned to your pickup on %s", collector.Name, request.PickupDate.Format(pickupDateLayout)),
		Type:        models.NotifyPickupStatus,
		ReferenceID: &refID,
	}

	if err := s.repo.AssignCollector(ctx, requestID, collector.ID, notification); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "pickup request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign collector")
	}

	s.invalidate(ctx, request.UserID)
	return nil
}

// CreatePickup schedules collection for an existing waste report.
func (s *PickupService) CreatePickup(ctx context.Context, actor *models.JWTClaims, req dto.CreatePickupRequest) (*models.Pickup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pickup payload")
	}

	report, err := s.reports.FindByID(ctx, req.WasteReportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "waste report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load waste report")
	}
	if !actor.IsStaff() && report.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to schedule for this report")
	}

	scheduled, err := time.Parse(pickupDateLayout, req.ScheduledDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduled_date must use YYYY-MM-DD")
	}

	now := s.now().UTC()
	pickup := &models.Pickup{
		ID:            uuid.NewString(),
		WasteReportID: report.ID,
		ScheduledDate: scheduled,
		Status:        models.PickupScheduled,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreatePickup(ctx, pickup); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pickup")
	}

	s.invalidate(ctx, report.UserID)
	return pickup, nil
}

// GetPickup returns a single pickup the actor may access.
func (s *PickupService) GetPickup(ctx context.Context, actor *models.JWTClaims, id string) (*models.Pickup, error) {
	return s.getPickupForActor(ctx, actor, id)
}

// ListPickups returns pickups. Non-staff actors see only pickups tied to
// their own reports.
func (s *PickupService) ListPickups(ctx context.Context, actor *models.JWTClaims) ([]models.Pickup, error) {
	ownerID := ""
	if !actor.IsStaff() {
		ownerID = actor.UserID
	}
	pickups, err := s.repo.ListPickups(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pickups")
	}
	return pickups, nil
}

// UpdatePickup amends a pickup's schedule, status or notes.
func (s *PickupService) UpdatePickup(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdatePickupRequest) (*models.Pickup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pickup payload")
	}

	pickup, err := s.getPickupForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.ScheduledDate != nil {
		scheduled, err := time.Parse(pickupDateLayout, *req.ScheduledDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "scheduled_date must use YYYY-MM-DD")
		}
		pickup.ScheduledDate = scheduled
	}
	if req.Status != nil {
		pickup.Status = models.PickupStatus(*req.Status)
	}
	if req.Notes != nil {
		pickup.Notes = *req.Notes
	}
	pickup.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdatePickup(ctx, pickup); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pickup not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pickup")
	}
	return pickup, nil
}

// DeletePickup removes a pickup the actor may access.
func (s *PickupService) DeletePickup(ctx context.Context, actor *models.JWTClaims, id string) error {
	if _, err := s.getPickupForActor(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.DeletePickup(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "pickup not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete pickup")
	}
	return nil
}

func (s *PickupService) getPickupForActor(ctx context.Context, actor *models.JWTClaims, id string) (*models.Pickup, error) {
	pickup, err := s.repo.FindPickupByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pickup not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pickup")
	}
	if !actor.IsStaff() {
		report, err := s.reports.FindByID(ctx, pickup.WasteReportID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "pickup not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pickup report")
		}
		if report.UserID != actor.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to access this pickup")
		}
	}
	return pickup, nil
}

func (s *PickupService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateUser(ctx, userID)
	s.cache.InvalidateAdmin(ctx)
}

// today truncates the service clock to a date on UTC.
func (s *PickupService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
