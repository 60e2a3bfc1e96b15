package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type collectorRepository interface {
	Create(ctx context.Context, collector *models.WasteCollector) error
	FindByID(ctx context.Context, id string) (*models.WasteCollector, error)
	List(ctx context.Context, availableOnly bool) ([]models.WasteCollector, error)
	Update(ctx context.Context, collector *models.WasteCollector) error
	UpdateLocation(ctx context.Context, id string, lat, lng float64) error
	Delete(ctx context.Context, id string) error
}

// CollectorService manages waste collectors. All mutations are staff-only.
type CollectorService struct {
	repo      collectorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCollectorService constructs the collector service.
func NewCollectorService(repo collectorRepository, validate *validator.Validate, logger *zap.Logger) *CollectorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectorService{repo: repo, validator: validate, logger: logger}
}

// Create registers a waste collector.
func (s *CollectorService) Create(ctx context.Context, actor *models.JWTClaims, req dto.WasteCollectorRequest) (*models.WasteCollector, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may manage collectors")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid collector payload")
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	collector := &models.WasteCollector{
		ID:            uuid.NewString(),
		Name:          req.Name,
		VehicleNumber: req.VehicleNumber,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		IsAvailable:   available,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, collector); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create collector")
	}
	return collector, nil
}

// Get returns one collector.
func (s *CollectorService) Get(ctx context.Context, id string) (*models.WasteCollector, error) {
	collector, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "collector not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load collector")
	}
	return collector, nil
}

// List returns collectors, optionally limited to available ones.
func (s *CollectorService) List(ctx context.Context, availableOnly bool) ([]models.WasteCollector, error) {
	collectors, err := s.repo.List(ctx, availableOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list collectors")
	}
	return collectors, nil
}

// Update replaces a collector's details.
func (s *CollectorService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.WasteCollectorRequest) (*models.WasteCollector, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may manage collectors")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid collector payload")
	}

	collector, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	collector.Name = req.Name
	collector.VehicleNumber = req.VehicleNumber
	collector.PhoneNumber = req.PhoneNumber
	collector.Email = req.Email
	if req.IsAvailable != nil {
		collector.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Update(ctx, collector); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "collector not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update collector")
	}
	return collector, nil
}

// UpdateLocation records a collector's reported position.
func (s *CollectorService) UpdateLocation(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateLocationRequest) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may update collector locations")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}
	if err := s.repo.UpdateLocation(ctx, id, *req.Latitude, *req.Longitude); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "collector not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update collector location")
	}
	return nil
}

// Delete removes a collector.
func (s *CollectorService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may manage collectors")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "collector not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete collector")
	}
	return nil
}
