package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openseries/roster-system/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, full_name, match_up, email, created_at FROM players WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.FullName,
		&player.MatchUp,
		&player.Email,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) SearchByName(ctx context.Context, search string, limit int) ([]*models.Player, error) {
	query := `
		SELECT id, full_name, match_up, email, created_at
		FROM players
		WHERE full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player := &models.Player{}
		if scanErr := rows.Scan(
			&player.ID,
			&player.FullName,
			&player.MatchUp,
			&player.Email,
			&player.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
