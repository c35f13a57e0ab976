package models

import "time"

// PaymentBatchStatus mirrors the ENUM in the database.
type PaymentBatchStatus string

const (
	PaymentBatchPending   PaymentBatchStatus = "pending"
	PaymentBatchConfirmed PaymentBatchStatus = "confirmed"
	PaymentBatchFailed    PaymentBatchStatus = "failed"
)

// PaymentBatch records one fee-gated roster addition batch. The registrations
// it names are created only when the gateway confirms the batch; before that
// nothing about the batch is visible on the roster.
type PaymentBatch struct {
	ID           string             `json:"id" db:"id"` // uuid, doubles as the gateway idempotency key
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	TeamID       int                `json:"team_id" db:"team_id"`
	PlayerIDs    []int              `json:"player_ids" db:"-"`
	Amount       int64              `json:"amount" db:"amount"` // minor currency units
	Status       PaymentBatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	ConfirmedAt  *time.Time         `json:"confirmed_at,omitempty" db:"confirmed_at"`
}
