package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type reportRepository interface {
	Create(ctx context.Context, report *models.WasteReport, media []models.WasteReportMedia) error
	FindByID(ctx context.Context, id string) (*models.WasteReport, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.WasteReport, int, error)
	Update(ctx context.Context, report *models.WasteReport) error
	Delete(ctx context.Context, id string) error
	AssignTeam(ctx context.Context, reportID, teamID string, notification *models.Notification) error
	FindMediaByID(ctx context.Context, id string) (*models.WasteReportMedia, error)
}

type teamFinder interface {
	FindByID(ctx context.Context, id string) (*models.CleanupTeam, error)
}

type reportNotifier interface {
	Create(ctx context.Context, n *models.Notification) error
}

type mediaStore interface {
	Save(filename string, data []byte) (string, error)
	Remove(filename string) error
}

type reportCacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
	InvalidateAdmin(ctx context.Context)
}

// ReportService handles waste report use cases including the assignment
// workflow.
type ReportService struct {
	repo      reportRepository
	teams     teamFinder
	notifier  reportNotifier
	storage   mediaStore
	cache     reportCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs the report service. storage and cache may be
// nil; media persistence and cache invalidation then become no-ops.
func NewReportService(repo reportRepository, teams teamFinder, notifier reportNotifier, storage mediaStore, cache reportCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, teams: teams, notifier: notifier, storage: storage, cache: cache, validator: validate, logger: logger}
}

// Create persists a new report owned by the actor, classifies and stores
// attachments, and notifies the owner that the report was received.
func (s *ReportService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateReportRequest, files []dto.UploadedFile) (*models.WasteReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	now := time.Now().UTC()
	report := &models.WasteReport{
		ID:          uuid.NewString(),
		UserID:      actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		WasteType:   models.WasteType(req.WasteType),
		Quantity:    req.Quantity,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		Status:      models.ReportPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	media := make([]models.WasteReportMedia, 0, len(files))
	var stored []string
	for _, f := range files {
		record := models.WasteReportMedia{
			ID:         uuid.NewString(),
			ReportID:   report.ID,
			MediaType:  classifyMedia(f.ContentType),
			UploadedAt: now,
		}
		if s.storage != nil {
			path, err := s.storage.Save(filepath.Join("reports", report.ID, f.Filename), f.Data)
			if err != nil {
				s.removeStored(stored)
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
			}
			record.FilePath = path
			stored = append(stored, path)
		}
		media = append(media, record)
	}

	if err := s.repo.Create(ctx, report, media); err != nil {
		s.removeStored(stored)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}
	report.Media = media

	if s.notifier != nil {
		refID := report.ID
		if err := s.notifier.Create(ctx, &models.Notification{
			UserID:      actor.UserID,
			Title:       "Waste Report Received",
			Message:     fmt.Sprintf("Your report %q has been received and is pending review", report.Title),
			Type:        models.NotifyWasteReport,
			ReferenceID: &refID,
		}); err != nil {
			s.logger.Warn("failed to create report notification", zap.Error(err))
		}
	}

	s.invalidate(ctx, actor.UserID)
	return report, nil
}

// Get returns a report. Non-staff actors may only read their own reports.
func (s *ReportService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.WasteReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	if !actor.IsStaff() && report.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this report")
	}
	return report, nil
}

// List returns reports visible to the actor. Non-staff listings are always
// scoped to the actor's own reports.
func (s *ReportService) List(ctx context.Context, actor *models.JWTClaims, filter models.ReportFilter) ([]models.WasteReport, *models.Pagination, error) {
	if !actor.IsStaff() {
		filter.UserID = actor.UserID
	}
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return reports, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update amends owner-editable fields. Staff may edit any report.
func (s *ReportService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateReportRequest) (*models.WasteReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	report, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		report.Title = *req.Title
	}
	if req.Description != nil {
		report.Description = *req.Description
	}
	if req.WasteType != nil {
		report.WasteType = models.WasteType(*req.WasteType)
	}
	if req.Quantity != nil {
		report.Quantity = *req.Quantity
	}
	if req.Latitude != nil {
		report.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		report.Longitude = *req.Longitude
	}
	if req.Address != nil {
		report.Address = *req.Address
	}
	report.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, report); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report")
	}

	s.invalidate(ctx, report.UserID)
	return report, nil
}

// Delete removes a report and its stored attachments.
func (s *ReportService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	report, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}

	if s.storage != nil {
		for _, m := range report.Media {
			if m.FilePath == "" {
				continue
			}
			if err := s.storage.Remove(m.FilePath); err != nil {
				s.logger.Warn("failed to remove attachment", zap.String("path", m.FilePath), zap.Error(err))
			}
		}
	}

	s.invalidate(ctx, report.UserID)
	return nil
}

// AssignTeam is the staff-only workflow transition moving a pending report
// to in_progress. The team must exist; the status change, team assignment
// and owner notification are committed atomically.
func (s *ReportService) AssignTeam(ctx context.Context, actor *models.JWTClaims, reportID string, req dto.AssignTeamRequest) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may assign teams")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	team, err := s.teams.FindByID(ctx, req.TeamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "cleanup team not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cleanup team")
	}

	refID := report.ID
	notification := &models.Notification{
		UserID:      report.UserID,
		Title:       "Report Status Update",
		Message:     fmt.Sprintf("Cleanup team %s has been assigned to your report %q", team.Name, report.Title),
		Type:        models.NotifyStatusUpdate,
		ReferenceID: &refID,
	}

	if err := s.repo.AssignTeam(ctx, reportID, team.ID, notification); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign team")
	}

	s.invalidate(ctx, report.UserID)
	return nil
}

// TrackingHistory builds the owner-facing lifecycle timeline for a report
// from its creation and the notifications referencing it.
func (s *ReportService) TrackingHistory(ctx context.Context, actor *models.JWTClaims, id string, events []models.Notification) (*dto.TrackingHistoryResponse, error) {
	report, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	timeline := []dto.TrackingEvent{{
		Date:    report.CreatedAt.Format(time.RFC3339),
		Event:   "Report submitted",
		Details: fmt.Sprintf("Waste type: %s", report.WasteType),
	}}
	for _, e := range events {
		timeline = append(timeline, dto.TrackingEvent{
			Date:    e.CreatedAt.Format(time.RFC3339),
			Event:   e.Title,
			Details: e.Message,
		})
	}

	days := int(time.Since(report.CreatedAt).Hours() / 24)
	return &dto.TrackingHistoryResponse{
		Report:            report,
		Timeline:          timeline,
		DaysSinceCreation: days,
		CurrentStatus:     report.Status,
		LastUpdated:       report.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// GetMedia returns a media record after checking the actor may access the
// owning report.
func (s *ReportService) GetMedia(ctx context.Context, actor *models.JWTClaims, mediaID string) (*models.WasteReportMedia, error) {
	media, err := s.repo.FindMediaByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "media not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	if _, err := s.Get(ctx, actor, media.ReportID); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *ReportService) removeStored(paths []string) {
	if s.storage == nil {
		return
	}
	for _, p := range paths {
		if err := s.storage.Remove(p); err != nil {
			s.logger.Warn("failed to clean up attachment", zap.String("path", p), zap.Error(err))
		}
	}
}

func (s *ReportService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateUser(ctx, userID)
	s.cache.InvalidateAdmin(ctx)
}

// classifyMedia maps a declared content type to a stored media kind. Only
// types prefixed with "video" count as video; everything else is an image.
func classifyMedia(contentType string) models.MediaType {
	if strings.HasPrefix(strings.ToLower(contentType), "video") {
		return models.MediaVideo
	}
	return models.MediaImage
}
