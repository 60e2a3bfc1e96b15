package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/dto"
	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type teamRepository interface {
	Create(ctx context.Context, team *models.CleanupTeam) error
	FindByID(ctx context.Context, id string) (*models.CleanupTeam, error)
	List(ctx context.Context) ([]models.CleanupTeam, error)
	Update(ctx context.Context, team *models.CleanupTeam) error
	Delete(ctx context.Context, id string) error
}

// TeamService manages cleanup teams. All mutations are staff-only.
type TeamService struct {
	repo      teamRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeamService constructs the team service.
func NewTeamService(repo teamRepository, validate *validator.Validate, logger *zap.Logger) *TeamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{repo: repo, validator: validate, logger: logger}
}

// Create registers a cleanup team.
func (s *TeamService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CleanupTeamRequest) (*models.CleanupTeam, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may manage teams")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team payload")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	team := &models.CleanupTeam{
		ID:            uuid.NewString(),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		IsActive:      active,
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team")
	}
	return team, nil
}

// Get returns one cleanup team.
func (s *TeamService) Get(ctx context.Context, id string) (*models.CleanupTeam, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cleanup team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
	}
	return team, nil
}

// List returns all cleanup teams.
func (s *TeamService) List(ctx context.Context) ([]models.CleanupTeam, error) {
	teams, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teams")
	}
	return teams, nil
}

// Update replaces a team's details.
func (s *TeamService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.CleanupTeamRequest) (*models.CleanupTeam, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may manage teams")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team payload")
	}

	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Name = req.Name
	team.ContactPerson = req.ContactPerson
	team.PhoneNumber = req.PhoneNumber
	team.Email = req.Email
	if req.IsActive != nil {
		team.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cleanup team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update team")
	}
	return team, nil
}

// Delete removes a cleanup team.
func (s *TeamService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff may manage teams")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "cleanup team not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete team")
	}
	return nil
}
