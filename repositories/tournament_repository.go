package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openseries/roster-system/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListBySeriesID(ctx context.Context, seriesID int) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, series_id, slug, name, category, type, start_date, end_date,
	player_registration_start_date, player_registration_end_date, player_fee, roster_max_players, created_at`

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.SeriesID,
		&t.Slug,
		&t.Name,
		&t.Category,
		&t.Type,
		&t.StartDate,
		&t.EndDate,
		&t.PlayerRegistrationStartDate,
		&t.PlayerRegistrationEndDate,
		&t.PlayerFee,
		&t.RosterMaxPlayers,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListBySeriesID(ctx context.Context, seriesID int) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE series_id = $1 ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		if scanErr := rows.Scan(
			&t.ID,
			&t.SeriesID,
			&t.Slug,
			&t.Name,
			&t.Category,
			&t.Type,
			&t.StartDate,
			&t.EndDate,
			&t.PlayerRegistrationStartDate,
			&t.PlayerRegistrationEndDate,
			&t.PlayerFee,
			&t.RosterMaxPlayers,
			&t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}
