package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openseries/roster-system/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetBySlug(ctx context.Context, slug string) (*models.Team, error)
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, slug, name, category, city, state, logo_key, created_at FROM teams WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *postgresTeamRepository) GetBySlug(ctx context.Context, slug string) (*models.Team, error) {
	query := `SELECT id, slug, name, category, city, state, logo_key, created_at FROM teams WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

func (r *postgresTeamRepository) getOne(ctx context.Context, query string, arg any) (*models.Team, error) {
	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&team.ID,
		&team.Slug,
		&team.Name,
		&team.Category,
		&team.City,
		&team.State,
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if err := r.loadAdminIDs(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) loadAdminIDs(ctx context.Context, team *models.Team) error {
	query := `SELECT player_id FROM team_admins WHERE team_id = $1 ORDER BY player_id`

	rows, err := r.db.QueryContext(ctx, query, team.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var playerID int
		if err := rows.Scan(&playerID); err != nil {
			return err
		}
		team.AdminIDs = append(team.AdminIDs, playerID)
	}
	return rows.Err()
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE teams SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
