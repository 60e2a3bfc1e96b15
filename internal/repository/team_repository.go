package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wastewise/wastewise-api/internal/models"
)

// TeamRepository provides database access for cleanup teams.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository instantiates the repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, name, contact_person, phone_number, email, is_active`

// Create inserts a cleanup team.
func (r *TeamRepository) Create(ctx context.Context, team *models.CleanupTeam) error {
	const query = `INSERT INTO cleanup_teams (id, name, contact_person, phone_number, email, is_active)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, team.ID, team.Name, team.ContactPerson, team.PhoneNumber, team.Email, team.IsActive); err != nil {
		return fmt.Errorf("create cleanup team: %w", err)
	}
	return nil
}

// FindByID returns a cleanup team by identifier.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*models.CleanupTeam, error) {
	query := `SELECT ` + teamColumns + ` FROM cleanup_teams WHERE id = $1 LIMIT 1`
	var team models.CleanupTeam
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find cleanup team: %w", err)
	}
	return &team, nil
}

// List returns all cleanup teams ordered by name.
func (r *TeamRepository) List(ctx context.Context) ([]models.CleanupTeam, error) {
	query := `SELECT ` + teamColumns + ` FROM cleanup_teams ORDER BY name ASC`
	var teams []models.CleanupTeam
	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("list cleanup teams: %w", err)
	}
	return teams, nil
}

// Update persists team fields.
func (r *TeamRepository) Update(ctx context.Context, team *models.CleanupTeam) error {
	const query = `UPDATE cleanup_teams SET name = $2, contact_person = $3, phone_number = $4, email = $5, is_active = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, team.ID, team.Name, team.ContactPerson, team.PhoneNumber, team.Email, team.IsActive)
	if err != nil {
		return fmt.Errorf("update cleanup team: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a cleanup team. Assigned reports keep a dangling reference
// cleared by the schema's ON DELETE SET NULL.
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cleanup_teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cleanup team: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
