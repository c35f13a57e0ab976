package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openseries/roster-system/eligibility"
	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/payment"
	"github.com/openseries/roster-system/repositories"
)

// PaymentService commits fee-gated roster batches when the gateway confirms
// payment. Registrations for a paid batch exist only after HandleConfirmation
// commits; before that the batch is invisible to the roster.
type PaymentService struct {
	tx             repositories.TxRunner
	batchRepo      repositories.PaymentBatchRepository
	rosterRepo     repositories.RosterRepository
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
}

func NewPaymentService(
	tx repositories.TxRunner,
	batchRepo repositories.PaymentBatchRepository,
	rosterRepo repositories.RosterRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
) *PaymentService {
	return &PaymentService{
		tx:             tx,
		batchRepo:      batchRepo,
		rosterRepo:     rosterRepo,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
	}
}

// HandleConfirmation records a confirmed batch and creates its roster
// registrations atomically. Deliveries are idempotent on the batch id: a
// batch that is already confirmed is returned as-is and no registration is
// duplicated. The same roster rules the direct path enforces apply here:
// every player must fit the division, and the commit must not push the
// roster past its capacity. A player who got onto the roster through
// another path while the checkout was in flight is skipped rather than
// failing the whole paid batch.
func (s *PaymentService) HandleConfirmation(ctx context.Context, meta payment.Metadata, amount int64) (*models.PaymentBatch, error) {
	if len(meta.PlayerIDs) == 0 {
		return nil, ErrNoPlayersInBatch
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, meta.TournamentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if expected := tournament.PlayerFee * int64(len(meta.PlayerIDs)); amount != expected {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrAmountMismatch, amount, expected)
	}
	for _, playerID := range meta.PlayerIDs {
		player, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		if !eligibility.MatchUpAllowed(tournament.Type, player.MatchUp) {
			return nil, ErrMatchUpNotEligible
		}
	}

	batch := &models.PaymentBatch{
		ID:           meta.BatchID,
		TournamentID: meta.TournamentID,
		TeamID:       meta.TeamID,
		PlayerIDs:    meta.PlayerIDs,
		Amount:       amount,
		Status:       models.PaymentBatchPending,
	}

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		if !errors.Is(err, repositories.ErrPaymentBatchConflict) {
			return nil, err
		}
		existing, getErr := s.batchRepo.GetByID(ctx, nil, meta.BatchID)
		if getErr != nil {
			return nil, mapRepoError(getErr)
		}
		if existing.Status == models.PaymentBatchConfirmed {
			// Duplicate delivery; the roster was already committed.
			return existing, nil
		}
		// A pending row from an interrupted earlier delivery; finish the
		// commit below.
		batch = existing
	}

	now := time.Now()
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		existing, err := s.rosterRepo.ListPlayerIDsByTeamScope(ctx, exec, meta.TeamID, models.ScopeTournament, meta.TournamentID)
		if err != nil {
			return err
		}
		rostered := make(map[int]struct{}, len(existing))
		for _, id := range existing {
			rostered[id] = struct{}{}
		}

		regs := make([]*models.RosterRegistration, 0, len(meta.PlayerIDs))
		for _, playerID := range meta.PlayerIDs {
			if _, ok := rostered[playerID]; ok {
				continue
			}
			regs = append(regs, &models.RosterRegistration{
				TeamID:    meta.TeamID,
				PlayerID:  playerID,
				ScopeKind: models.ScopeTournament,
				ScopeID:   meta.TournamentID,
				Role:      models.RolePlayer,
				IsPlaying: true,
			})
		}

		if tournament.RosterMaxPlayers > 0 && len(existing)+len(regs) > tournament.RosterMaxPlayers {
			return ErrRosterFull
		}
		if err := s.rosterRepo.CreateBatch(ctx, exec, regs); err != nil {
			return mapRepoError(err)
		}
		return mapRepoError(s.batchRepo.UpdateStatus(ctx, exec, batch.ID, models.PaymentBatchConfirmed, &now))
	})
	if err != nil {
		return nil, err
	}
	batch.Status = models.PaymentBatchConfirmed
	batch.ConfirmedAt = &now
	return batch, nil
}

// HandleFailure records a failed batch for audit. Nothing was persisted for
// the batch, so there is nothing to roll back.
func (s *PaymentService) HandleFailure(ctx context.Context, meta payment.Metadata, amount int64) error {
	batch := &models.PaymentBatch{
		ID:           meta.BatchID,
		TournamentID: meta.TournamentID,
		TeamID:       meta.TeamID,
		PlayerIDs:    meta.PlayerIDs,
		Amount:       amount,
		Status:       models.PaymentBatchFailed,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		if errors.Is(err, repositories.ErrPaymentBatchConflict) {
			return nil
		}
		return err
	}
	return nil
}
