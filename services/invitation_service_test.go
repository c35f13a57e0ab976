package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openseries/roster-system/models"
)

func newInvitationFixture(series *models.Series) (*InvitationService, *fakeInvitationRepo, *fakeRosterRepo) {
	invitationRepo := &fakeInvitationRepo{}
	rosterRepo := &fakeRosterRepo{}
	seriesRepo := &fakeSeriesRepo{series: []*models.Series{series}}
	teamRepo := &fakeTeamRepo{teams: []*models.Team{testTeam()}}
	playerRepo := &fakePlayerRepo{players: []*models.Player{
		testPlayer(adminID, models.MatchUpMale),
		testPlayer(playerID, models.MatchUpFemale),
	}}

	svc := NewInvitationService(&fakeTxRunner{}, invitationRepo, rosterRepo, teamRepo, seriesRepo, playerRepo)
	return svc, invitationRepo, rosterRepo
}

func TestInvite(t *testing.T) {
	t.Run("admin invites a player", func(t *testing.T) {
		svc, invitationRepo, _ := newInvitationFixture(openSeries())

		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationPending, inv.Status)
		assert.Equal(t, playerID, inv.ToPlayerID)
		assert.Equal(t, adminID, inv.FromUserID)
		assert.Len(t, invitationRepo.invitations, 1)
	})

	t.Run("pending invitation blocks a second invite", func(t *testing.T) {
		svc, _, _ := newInvitationFixture(openSeries())

		_, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)
		_, err = svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		assert.ErrorIs(t, err, ErrAlreadyInvited)
	})

	t.Run("declined invitation allows a re-invite", func(t *testing.T) {
		svc, _, _ := newInvitationFixture(openSeries())

		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)
		require.NoError(t, svc.Decline(context.Background(), inv.ID, playerID))

		again, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationPending, again.Status)
		assert.NotEqual(t, inv.ID, again.ID)
	})

	t.Run("rostered player cannot be invited", func(t *testing.T) {
		svc, _, rosterRepo := newInvitationFixture(openSeries())
		require.NoError(t, rosterRepo.Create(context.Background(), nil, &models.RosterRegistration{
			TeamID: 30, PlayerID: playerID, ScopeKind: models.ScopeSeries, ScopeID: 10,
		}))

		_, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("non-admin cannot invite", func(t *testing.T) {
		svc, _, _ := newInvitationFixture(openSeries())

		_, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", adminID, playerID)
		assert.ErrorIs(t, err, ErrNotTeamAdmin)
	})

	t.Run("closed window rejects the invite", func(t *testing.T) {
		svc, _, _ := newInvitationFixture(closedSeries())

		_, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		assert.ErrorIs(t, err, ErrWindowClosed)
	})
}

func TestAccept(t *testing.T) {
	t.Run("accepting creates the registration and resolves the invitation", func(t *testing.T) {
		svc, invitationRepo, rosterRepo := newInvitationFixture(openSeries())
		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)

		reg, err := svc.Accept(context.Background(), inv.ID, playerID)
		require.NoError(t, err)
		assert.Equal(t, playerID, reg.PlayerID)
		assert.Equal(t, models.ScopeSeries, reg.ScopeKind)
		assert.Equal(t, models.InvitationAccepted, invitationRepo.invitations[0].Status)
		assert.Len(t, rosterRepo.regs, 1)
	})

	t.Run("accepting twice never duplicates the registration", func(t *testing.T) {
		svc, _, rosterRepo := newInvitationFixture(openSeries())
		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)

		_, err = svc.Accept(context.Background(), inv.ID, playerID)
		require.NoError(t, err)
		_, err = svc.Accept(context.Background(), inv.ID, playerID)
		assert.ErrorIs(t, err, ErrInvitationResolved)
		assert.Len(t, rosterRepo.regs, 1)
	})

	t.Run("only the invited player may accept", func(t *testing.T) {
		svc, _, rosterRepo := newInvitationFixture(openSeries())
		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)

		_, err = svc.Accept(context.Background(), inv.ID, adminID)
		assert.ErrorIs(t, err, ErrNotInvitedPlayer)
		assert.Empty(t, rosterRepo.regs)
	})

	t.Run("full roster leaves the invitation pending", func(t *testing.T) {
		series := openSeries()
		series.RosterMaxPlayers = 1
		svc, invitationRepo, rosterRepo := newInvitationFixture(series)
		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)

		require.NoError(t, rosterRepo.Create(context.Background(), nil, &models.RosterRegistration{
			TeamID: 30, PlayerID: adminID, ScopeKind: models.ScopeSeries, ScopeID: 10,
		}))

		_, err = svc.Accept(context.Background(), inv.ID, playerID)
		assert.ErrorIs(t, err, ErrRosterFull)
		assert.Equal(t, models.InvitationPending, invitationRepo.invitations[0].Status)
	})
}

func TestDecline(t *testing.T) {
	t.Run("declining resolves without a registration", func(t *testing.T) {
		svc, invitationRepo, rosterRepo := newInvitationFixture(openSeries())
		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)

		require.NoError(t, svc.Decline(context.Background(), inv.ID, playerID))
		assert.Equal(t, models.InvitationDeclined, invitationRepo.invitations[0].Status)
		assert.Empty(t, rosterRepo.regs)
	})

	t.Run("declining a resolved invitation fails", func(t *testing.T) {
		svc, _, _ := newInvitationFixture(openSeries())
		inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)

		require.NoError(t, svc.Decline(context.Background(), inv.ID, playerID))
		assert.ErrorIs(t, svc.Decline(context.Background(), inv.ID, playerID), ErrInvitationResolved)
	})
}

func TestExpireStale(t *testing.T) {
	svc, invitationRepo, _ := newInvitationFixture(openSeries())
	inv, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
	require.NoError(t, err)
	require.NoError(t, svc.Decline(context.Background(), inv.ID, playerID))
	_, err = svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
	require.NoError(t, err)

	expired, err := svc.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	// Only the pending invitation transitioned; resolved history is untouched.
	assert.Equal(t, models.InvitationDeclined, invitationRepo.invitations[0].Status)
	assert.Equal(t, models.InvitationExpired, invitationRepo.invitations[1].Status)
}

func TestListSent(t *testing.T) {
	t.Run("admin reads the full history newest first", func(t *testing.T) {
		svc, _, _ := newInvitationFixture(openSeries())
		first, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)
		require.NoError(t, svc.Decline(context.Background(), first.ID, playerID))
		second, err := svc.Invite(context.Background(), "summer-open", "harbor-hawks", playerID, adminID)
		require.NoError(t, err)

		history, err := svc.ListSent(context.Background(), "summer-open", "harbor-hawks", adminID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, second.ID, history[0].ID)
		assert.Equal(t, first.ID, history[1].ID)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		svc, _, _ := newInvitationFixture(openSeries())

		_, err := svc.ListSent(context.Background(), "summer-open", "harbor-hawks", playerID)
		assert.ErrorIs(t, err, ErrNotTeamAdmin)
	})
}
