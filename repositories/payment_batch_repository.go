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
	ErrPaymentBatchNotFound = errors.New("payment batch not found")
	ErrPaymentBatchConflict = errors.New("payment batch already exists")
)

type PaymentBatchRepository interface {
	Create(ctx context.Context, batch *models.PaymentBatch) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.PaymentBatch, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.PaymentBatchStatus, confirmedAt *time.Time) error
}

type postgresPaymentBatchRepository struct {
	db *sql.DB
}

func NewPostgresPaymentBatchRepository(db *sql.DB) PaymentBatchRepository {
	return &postgresPaymentBatchRepository{db: db}
}

func (r *postgresPaymentBatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPaymentBatchRepository) Create(ctx context.Context, batch *models.PaymentBatch) error {
	query := `
		INSERT INTO payment_batches (id, tournament_id, team_id, player_ids, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		batch.ID,
		batch.TournamentID,
		batch.TeamID,
		pq.Array(batch.PlayerIDs),
		batch.Amount,
		batch.Status,
	).Scan(&batch.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return ErrPaymentBatchConflict
		}
		return err
	}
	return nil
}

func (r *postgresPaymentBatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.PaymentBatch, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, team_id, player_ids, amount, status, created_at, confirmed_at
		FROM payment_batches
		WHERE id = $1`

	batch := &models.PaymentBatch{}
	var playerIDs pq.Int64Array
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&batch.ID,
		&batch.TournamentID,
		&batch.TeamID,
		&playerIDs,
		&batch.Amount,
		&batch.Status,
		&batch.CreatedAt,
		&batch.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentBatchNotFound
		}
		return nil, err
	}

	batch.PlayerIDs = make([]int, len(playerIDs))
	for i, v := range playerIDs {
		batch.PlayerIDs[i] = int(v)
	}
	return batch, nil
}

func (r *postgresPaymentBatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id string, status models.PaymentBatchStatus, confirmedAt *time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE payment_batches SET status = $1, confirmed_at = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, status, confirmedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPaymentBatchNotFound)
}
