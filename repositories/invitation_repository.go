package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/openseries/roster-system/models"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationInvalid  = errors.New("invitation references a missing series, team, or player")
)

// InvitationRepository persists the full invitation history. Rows are write
// once; only the status column ever changes, and nothing is deleted.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, id int) (*models.Invitation, error)
	ListByTeamSeries(ctx context.Context, teamID, seriesID int) ([]*models.Invitation, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InvitationStatus) error
	ExpirePendingBefore(ctx context.Context, now time.Time) (int64, error)
}

type postgresInvitationRepository struct {
	db *sql.DB
}

func NewPostgresInvitationRepository(db *sql.DB) InvitationRepository {
	return &postgresInvitationRepository{db: db}
}

func (r *postgresInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	query := `
		INSERT INTO invitations (series_id, team_id, from_user_id, to_player_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invitation.SeriesID,
		invitation.TeamID,
		invitation.FromUserID,
		invitation.ToPlayerID,
		invitation.Status,
	).Scan(&invitation.ID, &invitation.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return ErrInvitationInvalid
		}
		return err
	}
	return nil
}

func (r *postgresInvitationRepository) GetByID(ctx context.Context, id int) (*models.Invitation, error) {
	query := `
		SELECT id, series_id, team_id, from_user_id, to_player_id, status, created_at
		FROM invitations
		WHERE id = $1`

	invitation := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&invitation.ID,
		&invitation.SeriesID,
		&invitation.TeamID,
		&invitation.FromUserID,
		&invitation.ToPlayerID,
		&invitation.Status,
		&invitation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return invitation, nil
}

func (r *postgresInvitationRepository) ListByTeamSeries(ctx context.Context, teamID, seriesID int) ([]*models.Invitation, error) {
	query := `
		SELECT i.id, i.series_id, i.team_id, i.from_user_id, i.to_player_id, i.status, i.created_at,
		       p.id, p.full_name, p.match_up, p.email, p.created_at
		FROM invitations i
		JOIN players p ON p.id = i.to_player_id
		WHERE i.team_id = $1 AND i.series_id = $2
		ORDER BY i.created_at DESC, i.id DESC`

	rows, err := r.db.QueryContext(ctx, query, teamID, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]*models.Invitation, 0)
	for rows.Next() {
		invitation := &models.Invitation{ToPlayer: &models.Player{}}
		if scanErr := rows.Scan(
			&invitation.ID,
			&invitation.SeriesID,
			&invitation.TeamID,
			&invitation.FromUserID,
			&invitation.ToPlayerID,
			&invitation.Status,
			&invitation.CreatedAt,
			&invitation.ToPlayer.ID,
			&invitation.ToPlayer.FullName,
			&invitation.ToPlayer.MatchUp,
			&invitation.ToPlayer.Email,
			&invitation.ToPlayer.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		invitations = append(invitations, invitation)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *postgresInvitationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InvitationStatus) error {
	executor := SQLExecutor(r.db)
	if exec != nil {
		executor = exec
	}
	query := `UPDATE invitations SET status = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInvitationNotFound)
}

// ExpirePendingBefore marks pending invitations expired for every series
// whose eligibility window closed before the given instant. Returns the
// number of invitations transitioned.
func (r *postgresInvitationRepository) ExpirePendingBefore(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE invitations i
		SET status = 'expired'
		FROM series s
		WHERE i.series_id = s.id
		  AND i.status = 'pending'
		  AND s.end_date < $1`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
