package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openseries/roster-system/models"
)

var ErrSeriesNotFound = errors.New("series not found")

type SeriesRepository interface {
	GetByID(ctx context.Context, id int) (*models.Series, error)
	GetBySlug(ctx context.Context, slug string) (*models.Series, error)
}

type postgresSeriesRepository struct {
	db *sql.DB
}

func NewPostgresSeriesRepository(db *sql.DB) SeriesRepository {
	return &postgresSeriesRepository{db: db}
}

const seriesColumns = `id, slug, name, category, type, start_date, end_date, roster_max_players, logo_key, created_at`

func (r *postgresSeriesRepository) GetByID(ctx context.Context, id int) (*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSeriesRepository) GetBySlug(ctx context.Context, slug string) (*models.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM series WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

func (r *postgresSeriesRepository) scanOne(row *sql.Row) (*models.Series, error) {
	series := &models.Series{}
	err := row.Scan(
		&series.ID,
		&series.Slug,
		&series.Name,
		&series.Category,
		&series.Type,
		&series.StartDate,
		&series.EndDate,
		&series.RosterMaxPlayers,
		&series.LogoKey,
		&series.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return series, nil
}
