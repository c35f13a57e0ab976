package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/openseries/roster-system/models"
)

var (
	ErrRegistrationNotFound = errors.New("roster registration not found")
	ErrRegistrationConflict = errors.New("player already registered for this team and scope")
	ErrRegistrationInvalid  = errors.New("registration references a missing player, team, or scope")
)

type RosterRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.RosterRegistration) error
	CreateBatch(ctx context.Context, exec SQLExecutor, regs []*models.RosterRegistration) error
	GetByID(ctx context.Context, id int) (*models.RosterRegistration, error)
	ListByTeamScope(ctx context.Context, teamID int, kind models.ScopeKind, scopeID int) ([]*models.RosterRegistration, error)
	ListPlayerIDsByTeamScope(ctx context.Context, exec SQLExecutor, teamID int, kind models.ScopeKind, scopeID int) ([]int, error)
	CountByTeamScope(ctx context.Context, exec SQLExecutor, teamID int, kind models.ScopeKind, scopeID int) (int, error)
	Update(ctx context.Context, reg *models.RosterRegistration) error
	Delete(ctx context.Context, id int) error
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRosterRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.RosterRegistration) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO roster_registrations (team_id, player_id, scope_kind, scope_id, role, is_playing)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		reg.TeamID,
		reg.PlayerID,
		reg.ScopeKind,
		reg.ScopeID,
		reg.Role,
		reg.IsPlaying,
	).Scan(&reg.ID, &reg.CreatedAt)

	if err != nil {
		return translateRegistrationError(err)
	}
	return nil
}

func (r *postgresRosterRepository) CreateBatch(ctx context.Context, exec SQLExecutor, regs []*models.RosterRegistration) error {
	if len(regs) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	for _, reg := range regs {
		query := `
			INSERT INTO roster_registrations (team_id, player_id, scope_kind, scope_id, role, is_playing)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`
		err := executor.QueryRowContext(ctx, query,
			reg.TeamID,
			reg.PlayerID,
			reg.ScopeKind,
			reg.ScopeID,
			reg.Role,
			reg.IsPlaying,
		).Scan(&reg.ID, &reg.CreatedAt)
		if err != nil {
			return fmt.Errorf("batch insert failed for player %d: %w", reg.PlayerID, translateRegistrationError(err))
		}
	}
	return nil
}

func (r *postgresRosterRepository) GetByID(ctx context.Context, id int) (*models.RosterRegistration, error) {
	query := `
		SELECT id, team_id, player_id, scope_kind, scope_id, role, is_playing, created_at
		FROM roster_registrations
		WHERE id = $1`

	reg := &models.RosterRegistration{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID,
		&reg.TeamID,
		&reg.PlayerID,
		&reg.ScopeKind,
		&reg.ScopeID,
		&reg.Role,
		&reg.IsPlaying,
		&reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *postgresRosterRepository) ListByTeamScope(ctx context.Context, teamID int, kind models.ScopeKind, scopeID int) ([]*models.RosterRegistration, error) {
	query := `
		SELECT r.id, r.team_id, r.player_id, r.scope_kind, r.scope_id, r.role, r.is_playing, r.created_at,
		       p.id, p.full_name, p.match_up, p.email, p.created_at
		FROM roster_registrations r
		JOIN players p ON p.id = r.player_id
		WHERE r.team_id = $1 AND r.scope_kind = $2 AND r.scope_id = $3
		ORDER BY r.created_at`

	rows, err := r.db.QueryContext(ctx, query, teamID, kind, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*models.RosterRegistration, 0)
	for rows.Next() {
		reg := &models.RosterRegistration{Player: &models.Player{}}
		if scanErr := rows.Scan(
			&reg.ID,
			&reg.TeamID,
			&reg.PlayerID,
			&reg.ScopeKind,
			&reg.ScopeID,
			&reg.Role,
			&reg.IsPlaying,
			&reg.CreatedAt,
			&reg.Player.ID,
			&reg.Player.FullName,
			&reg.Player.MatchUp,
			&reg.Player.Email,
			&reg.Player.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		regs = append(regs, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *postgresRosterRepository) ListPlayerIDsByTeamScope(ctx context.Context, exec SQLExecutor, teamID int, kind models.ScopeKind, scopeID int) ([]int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT player_id FROM roster_registrations WHERE team_id = $1 AND scope_kind = $2 AND scope_id = $3`

	rows, err := executor.QueryContext(ctx, query, teamID, kind, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresRosterRepository) CountByTeamScope(ctx context.Context, exec SQLExecutor, teamID int, kind models.ScopeKind, scopeID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM roster_registrations WHERE team_id = $1 AND scope_kind = $2 AND scope_id = $3`

	var count int
	if err := executor.QueryRowContext(ctx, query, teamID, kind, scopeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRosterRepository) Update(ctx context.Context, reg *models.RosterRegistration) error {
	query := `UPDATE roster_registrations SET role = $1, is_playing = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, reg.Role, reg.IsPlaying, reg.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRosterRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM roster_registrations WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func translateRegistrationError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrRegistrationConflict
		case "23503": // foreign_key_violation
			return ErrRegistrationInvalid
		}
	}
	return err
}
