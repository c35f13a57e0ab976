package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/payment"
)

func newPaymentFixture(fee int64) (*PaymentService, *fakePaymentBatchRepo, *fakeRosterRepo) {
	return newPaymentFixtureFor(openTournament(fee))
}

func newPaymentFixtureFor(tournament *models.Tournament) (*PaymentService, *fakePaymentBatchRepo, *fakeRosterRepo) {
	batchRepo := newFakePaymentBatchRepo()
	rosterRepo := &fakeRosterRepo{}
	tournamentRepo := &fakeTournamentRepo{tournaments: []*models.Tournament{tournament}}
	playerRepo := &fakePlayerRepo{players: []*models.Player{
		testPlayer(2, models.MatchUpMale),
		testPlayer(3, models.MatchUpMale),
		testPlayer(4, models.MatchUpFemale),
	}}

	svc := NewPaymentService(&fakeTxRunner{}, batchRepo, rosterRepo, tournamentRepo, playerRepo)
	return svc, batchRepo, rosterRepo
}

func confirmedMeta() payment.Metadata {
	return payment.Metadata{
		BatchID:      "6f1c2b34-0000-4000-8000-000000000001",
		TournamentID: 20,
		TeamID:       30,
		PlayerIDs:    []int{2, 3, 4},
	}
}

func TestHandleConfirmation(t *testing.T) {
	t.Run("commits every player and confirms the batch", func(t *testing.T) {
		svc, batchRepo, rosterRepo := newPaymentFixture(2500)

		batch, err := svc.HandleConfirmation(context.Background(), confirmedMeta(), 7500)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentBatchConfirmed, batch.Status)
		require.NotNil(t, batch.ConfirmedAt)
		assert.Len(t, rosterRepo.regs, 3)
		for _, reg := range rosterRepo.regs {
			assert.Equal(t, models.ScopeTournament, reg.ScopeKind)
			assert.Equal(t, 20, reg.ScopeID)
		}

		stored, err := batchRepo.GetByID(context.Background(), nil, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentBatchConfirmed, stored.Status)
	})

	t.Run("redelivery is idempotent", func(t *testing.T) {
		svc, _, rosterRepo := newPaymentFixture(2500)

		first, err := svc.HandleConfirmation(context.Background(), confirmedMeta(), 7500)
		require.NoError(t, err)
		second, err := svc.HandleConfirmation(context.Background(), confirmedMeta(), 7500)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.PaymentBatchConfirmed, second.Status)
		assert.Len(t, rosterRepo.regs, 3)
	})

	t.Run("rejects an amount that does not match the fee", func(t *testing.T) {
		svc, _, rosterRepo := newPaymentFixture(2500)

		_, err := svc.HandleConfirmation(context.Background(), confirmedMeta(), 7000)
		assert.ErrorIs(t, err, ErrAmountMismatch)
		assert.Empty(t, rosterRepo.regs)
	})

	t.Run("rejects a batch naming no players", func(t *testing.T) {
		svc, _, _ := newPaymentFixture(2500)
		meta := confirmedMeta()
		meta.PlayerIDs = nil

		_, err := svc.HandleConfirmation(context.Background(), meta, 0)
		assert.ErrorIs(t, err, ErrNoPlayersInBatch)
	})

	t.Run("resumes a pending batch left by an interrupted delivery", func(t *testing.T) {
		svc, batchRepo, rosterRepo := newPaymentFixture(2500)
		meta := confirmedMeta()
		require.NoError(t, batchRepo.Create(context.Background(), &models.PaymentBatch{
			ID:           meta.BatchID,
			TournamentID: meta.TournamentID,
			TeamID:       meta.TeamID,
			PlayerIDs:    meta.PlayerIDs,
			Amount:       7500,
			Status:       models.PaymentBatchPending,
		}))

		batch, err := svc.HandleConfirmation(context.Background(), meta, 7500)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentBatchConfirmed, batch.Status)
		assert.Len(t, rosterRepo.regs, 3)
	})

	t.Run("unknown tournament maps to not found", func(t *testing.T) {
		svc, _, _ := newPaymentFixture(2500)
		meta := confirmedMeta()
		meta.TournamentID = 999

		_, err := svc.HandleConfirmation(context.Background(), meta, 7500)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})

	t.Run("refuses a commit that would overfill the roster", func(t *testing.T) {
		svc, batchRepo, rosterRepo := newPaymentFixture(2500)
		for _, id := range []int{8, 9} {
			require.NoError(t, rosterRepo.Create(context.Background(), nil, &models.RosterRegistration{
				TeamID: 30, PlayerID: id, ScopeKind: models.ScopeTournament, ScopeID: 20,
			}))
		}

		// Cap is 4; two rostered plus a batch of three is one too many.
		_, err := svc.HandleConfirmation(context.Background(), confirmedMeta(), 7500)
		assert.ErrorIs(t, err, ErrRosterFull)
		assert.Len(t, rosterRepo.regs, 2, "no partial commit")

		stored, err := batchRepo.GetByID(context.Background(), nil, confirmedMeta().BatchID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentBatchPending, stored.Status, "batch left pending for manual resolution")
	})

	t.Run("skips a player who joined the roster while the checkout ran", func(t *testing.T) {
		svc, batchRepo, rosterRepo := newPaymentFixture(2500)
		require.NoError(t, rosterRepo.Create(context.Background(), nil, &models.RosterRegistration{
			TeamID: 30, PlayerID: 2, ScopeKind: models.ScopeTournament, ScopeID: 20,
		}))

		batch, err := svc.HandleConfirmation(context.Background(), confirmedMeta(), 7500)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentBatchConfirmed, batch.Status)
		assert.Len(t, rosterRepo.regs, 3, "remaining players still committed, no duplicate")

		stored, err := batchRepo.GetByID(context.Background(), nil, batch.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentBatchConfirmed, stored.Status)
	})

	t.Run("rejects a player whose match-up does not fit the division", func(t *testing.T) {
		tournament := openTournament(2500)
		tournament.Type = models.SeriesWomens
		svc, _, rosterRepo := newPaymentFixtureFor(tournament)

		_, err := svc.HandleConfirmation(context.Background(), confirmedMeta(), 7500)
		assert.ErrorIs(t, err, ErrMatchUpNotEligible)
		assert.Empty(t, rosterRepo.regs)
	})

	t.Run("unknown player in the batch maps to not found", func(t *testing.T) {
		svc, _, _ := newPaymentFixture(2500)
		meta := confirmedMeta()
		meta.PlayerIDs = []int{2, 3, 99}

		_, err := svc.HandleConfirmation(context.Background(), meta, 7500)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})
}

func TestHandleFailure(t *testing.T) {
	t.Run("records the failed batch for audit", func(t *testing.T) {
		svc, batchRepo, rosterRepo := newPaymentFixture(2500)
		meta := confirmedMeta()

		require.NoError(t, svc.HandleFailure(context.Background(), meta, 7500))

		stored, err := batchRepo.GetByID(context.Background(), nil, meta.BatchID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentBatchFailed, stored.Status)
		assert.Empty(t, rosterRepo.regs)
	})

	t.Run("duplicate failure deliveries are ignored", func(t *testing.T) {
		svc, _, _ := newPaymentFixture(2500)
		meta := confirmedMeta()

		require.NoError(t, svc.HandleFailure(context.Background(), meta, 7500))
		assert.NoError(t, svc.HandleFailure(context.Background(), meta, 7500))
	})
}
