package services

import (
	"context"
	"time"

	"github.com/openseries/roster-system/eligibility"
	"github.com/openseries/roster-system/ledger"
	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/repositories"
)

// InvitationService owns the invitation lifecycle: issue, accept, decline,
// and the backend-driven expiry of stale pending invitations. The full
// history is retained; the current record per player is derived with the
// same ledger grouping clients use.
type InvitationService struct {
	tx             repositories.TxRunner
	invitationRepo repositories.InvitationRepository
	rosterRepo     repositories.RosterRepository
	teamRepo       repositories.TeamRepository
	seriesRepo     repositories.SeriesRepository
	playerRepo     repositories.PlayerRepository
}

func NewInvitationService(
	tx repositories.TxRunner,
	invitationRepo repositories.InvitationRepository,
	rosterRepo repositories.RosterRepository,
	teamRepo repositories.TeamRepository,
	seriesRepo repositories.SeriesRepository,
	playerRepo repositories.PlayerRepository,
) *InvitationService {
	return &InvitationService{
		tx:             tx,
		invitationRepo: invitationRepo,
		rosterRepo:     rosterRepo,
		teamRepo:       teamRepo,
		seriesRepo:     seriesRepo,
		playerRepo:     playerRepo,
	}
}

// Invite issues a pending invitation from a team admin to a player. The
// player's current invitation (newest in the history) must not already be
// pending, and the player must not already hold a registration.
func (s *InvitationService) Invite(ctx context.Context, seriesSlug, teamSlug string, toPlayerID, currentUserID int) (*models.Invitation, error) {
	series, err := s.seriesRepo.GetBySlug(ctx, seriesSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetBySlug(ctx, teamSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	player, err := s.playerRepo.GetByID(ctx, toPlayerID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if !eligibility.CanInvite(currentUserID, team, series, time.Now()) {
		if !eligibility.IsTeamAdmin(currentUserID, team) {
			return nil, ErrNotTeamAdmin
		}
		return nil, ErrWindowClosed
	}
	if !eligibility.MatchUpAllowed(series.Type, player.MatchUp) {
		return nil, ErrMatchUpNotEligible
	}

	view, err := s.teamSeriesView(ctx, team.ID, series.ID)
	if err != nil {
		return nil, err
	}
	if view.IsInvited(player.ID) {
		return nil, ErrAlreadyInvited
	}
	if view.IsPlayerInRoster(player.ID) {
		return nil, ErrAlreadyRegistered
	}

	invitation := &models.Invitation{
		SeriesID:   series.ID,
		TeamID:     team.ID,
		FromUserID: currentUserID,
		ToPlayerID: player.ID,
		Status:     models.InvitationPending,
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, mapRepoError(err)
	}
	return invitation, nil
}

// Accept transitions a pending invitation to accepted and creates the
// roster registration in the same transaction. Only the invited player may
// accept, and a resolved invitation never produces a second registration.
func (s *InvitationService) Accept(ctx context.Context, invitationID, currentUserID int) (*models.RosterRegistration, error) {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if invitation.ToPlayerID != currentUserID {
		return nil, ErrNotInvitedPlayer
	}
	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationResolved
	}

	series, err := s.seriesRepo.GetByID(ctx, invitation.SeriesID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !eligibility.CanRegisterSelf(series, time.Now()) {
		return nil, ErrWindowClosed
	}

	reg := &models.RosterRegistration{
		TeamID:    invitation.TeamID,
		PlayerID:  invitation.ToPlayerID,
		ScopeKind: models.ScopeSeries,
		ScopeID:   series.ID,
		Role:      models.RolePlayer,
		IsPlaying: true,
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		count, err := s.rosterRepo.CountByTeamScope(ctx, exec, invitation.TeamID, models.ScopeSeries, series.ID)
		if err != nil {
			return err
		}
		if series.RosterMaxPlayers > 0 && count >= series.RosterMaxPlayers {
			return ErrRosterFull
		}

		if err := s.invitationRepo.UpdateStatus(ctx, exec, invitation.ID, models.InvitationAccepted); err != nil {
			return mapRepoError(err)
		}
		return mapRepoError(s.rosterRepo.Create(ctx, exec, reg))
	})
	if err != nil {
		return nil, err
	}

	invitation.Status = models.InvitationAccepted
	return reg, nil
}

// Decline transitions a pending invitation to declined. The row stays in
// the history; the player can be invited again later.
func (s *InvitationService) Decline(ctx context.Context, invitationID, currentUserID int) error {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return mapRepoError(err)
	}
	if invitation.ToPlayerID != currentUserID {
		return ErrNotInvitedPlayer
	}
	if invitation.Status != models.InvitationPending {
		return ErrInvitationResolved
	}
	return mapRepoError(s.invitationRepo.UpdateStatus(ctx, nil, invitation.ID, models.InvitationDeclined))
}

// ListSent returns a team's complete invitation history for a series,
// newest first. Only team admins may read it. Grouping to the current
// record per player is the consumer's concern.
func (s *InvitationService) ListSent(ctx context.Context, seriesSlug, teamSlug string, currentUserID int) ([]*models.Invitation, error) {
	series, err := s.seriesRepo.GetBySlug(ctx, seriesSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetBySlug(ctx, teamSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !eligibility.IsTeamAdmin(currentUserID, team) {
		return nil, ErrNotTeamAdmin
	}
	return s.invitationRepo.ListByTeamSeries(ctx, team.ID, series.ID)
}

// ExpireStale marks pending invitations expired for every series whose
// window has closed. Run periodically from the scheduler.
func (s *InvitationService) ExpireStale(ctx context.Context) (int64, error) {
	return s.invitationRepo.ExpirePendingBefore(ctx, time.Now())
}

func (s *InvitationService) teamSeriesView(ctx context.Context, teamID, seriesID int) (*ledger.View, error) {
	history, err := s.invitationRepo.ListByTeamSeries(ctx, teamID, seriesID)
	if err != nil {
		return nil, err
	}
	roster, err := s.rosterRepo.ListByTeamScope(ctx, teamID, models.ScopeSeries, seriesID)
	if err != nil {
		return nil, err
	}

	invitations := make([]models.Invitation, len(history))
	for i, inv := range history {
		invitations[i] = *inv
	}
	regs := make([]models.RosterRegistration, len(roster))
	for i, reg := range roster {
		regs[i] = *reg
	}
	return ledger.NewView(invitations, regs), nil
}
