package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openseries/roster-system/eligibility"
	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/repositories"
)

// RosterService owns every direct roster mutation: self-registration,
// admin adds, removals and edits. Fee-gated additions never pass through
// here; they commit via PaymentService on gateway confirmation.
type RosterService struct {
	rosterRepo     repositories.RosterRepository
	teamRepo       repositories.TeamRepository
	seriesRepo     repositories.SeriesRepository
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
}

func NewRosterService(
	rosterRepo repositories.RosterRepository,
	teamRepo repositories.TeamRepository,
	seriesRepo repositories.SeriesRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
) *RosterService {
	return &RosterService{
		rosterRepo:     rosterRepo,
		teamRepo:       teamRepo,
		seriesRepo:     seriesRepo,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
	}
}

// RegisterSelf adds the calling player to a series roster. No admin rights
// are required; the player acts on themself.
func (s *RosterService) RegisterSelf(ctx context.Context, seriesSlug, teamSlug string, playerID int) (*models.RosterRegistration, error) {
	series, err := s.seriesRepo.GetBySlug(ctx, seriesSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetBySlug(ctx, teamSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if !eligibility.CanRegisterSelf(series, time.Now()) {
		return nil, ErrWindowClosed
	}
	if !eligibility.MatchUpAllowed(series.Type, player.MatchUp) {
		return nil, ErrMatchUpNotEligible
	}
	if err := s.checkCapacity(ctx, team.ID, models.ScopeSeries, series.ID, series.RosterMaxPlayers, 1); err != nil {
		return nil, err
	}

	reg := &models.RosterRegistration{
		TeamID:    team.ID,
		PlayerID:  player.ID,
		ScopeKind: models.ScopeSeries,
		ScopeID:   series.ID,
		Role:      models.RolePlayer,
		IsPlaying: true,
	}
	if err := s.rosterRepo.Create(ctx, nil, reg); err != nil {
		return nil, mapRepoError(err)
	}
	return reg, nil
}

// AddToRoster directly adds a player to a tournament roster. Only free
// tournaments commit here; a fee-gated tournament rejects the direct path
// and points the caller at the checkout flow instead.
func (s *RosterService) AddToRoster(ctx context.Context, eventID, teamID, playerID, currentUserID int) (*models.RosterRegistration, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if !eligibility.CanAdd(currentUserID, team, tournament, time.Now()) {
		if !eligibility.IsTeamAdmin(currentUserID, team) {
			return nil, ErrNotTeamAdmin
		}
		return nil, ErrWindowClosed
	}
	if !eligibility.MatchUpAllowed(tournament.Type, player.MatchUp) {
		return nil, ErrMatchUpNotEligible
	}
	if tournament.PlayerFee > 0 {
		return nil, &ActionableError{
			Base:        ErrFeeRequired,
			Description: fmt.Sprintf("Adding players to %s requires a fee of %d per player. Complete the payment to commit the additions.", tournament.Name, tournament.PlayerFee),
			ActionHref:  fmt.Sprintf("/tournament/%d/team/%d/checkout", tournament.ID, team.ID),
			ActionName:  "Go to payment",
		}
	}
	if err := s.checkCapacity(ctx, team.ID, models.ScopeTournament, tournament.ID, tournament.RosterMaxPlayers, 1); err != nil {
		return nil, err
	}

	reg := &models.RosterRegistration{
		TeamID:    team.ID,
		PlayerID:  player.ID,
		ScopeKind: models.ScopeTournament,
		ScopeID:   tournament.ID,
		Role:      models.RolePlayer,
		IsPlaying: true,
	}
	if err := s.rosterRepo.Create(ctx, nil, reg); err != nil {
		return nil, mapRepoError(err)
	}
	return reg, nil
}

// RemoveFromRoster irreversibly deletes a registration. Allowed only for a
// team admin and only while the scope's window is open.
func (s *RosterService) RemoveFromRoster(ctx context.Context, registrationID, teamID, eventID, currentUserID int) error {
	reg, err := s.rosterRepo.GetByID(ctx, registrationID)
	if err != nil {
		return mapRepoError(err)
	}
	if reg.TeamID != teamID {
		return ErrRegistrationNotFound
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return mapRepoError(err)
	}
	scope, err := s.scopeOf(ctx, reg)
	if err != nil {
		return err
	}

	if !eligibility.CanRemove(currentUserID, team, scope, time.Now()) {
		if !eligibility.IsTeamAdmin(currentUserID, team) {
			return ErrNotTeamAdmin
		}
		return ErrWindowClosed
	}

	return mapRepoError(s.rosterRepo.Delete(ctx, reg.ID))
}

// UpdateRegistrationInput is a partial edit; nil fields stay untouched.
type UpdateRegistrationInput struct {
	Role      *models.RosterRole `json:"role"`
	IsPlaying *bool              `json:"is_playing"`
}

// UpdateRegistration applies a role / is_playing edit. A payload identical
// to the stored values writes nothing.
func (s *RosterService) UpdateRegistration(ctx context.Context, registrationID, currentUserID int, input UpdateRegistrationInput) (*models.RosterRegistration, error) {
	reg, err := s.rosterRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetByID(ctx, reg.TeamID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	scope, err := s.scopeOf(ctx, reg)
	if err != nil {
		return nil, err
	}

	if !eligibility.CanEdit(currentUserID, team, scope, time.Now()) {
		if !eligibility.IsTeamAdmin(currentUserID, team) {
			return nil, ErrNotTeamAdmin
		}
		return nil, ErrWindowClosed
	}

	changed := false
	if input.Role != nil && *input.Role != reg.Role {
		reg.Role = *input.Role
		changed = true
	}
	if input.IsPlaying != nil && *input.IsPlaying != reg.IsPlaying {
		reg.IsPlaying = *input.IsPlaying
		changed = true
	}
	if !changed {
		return reg, nil
	}

	if err := s.rosterRepo.Update(ctx, reg); err != nil {
		return nil, mapRepoError(err)
	}
	return reg, nil
}

// ListSeriesRoster returns a team's series roster with players populated.
func (s *RosterService) ListSeriesRoster(ctx context.Context, seriesSlug, teamSlug string) ([]*models.RosterRegistration, error) {
	series, err := s.seriesRepo.GetBySlug(ctx, seriesSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	team, err := s.teamRepo.GetBySlug(ctx, teamSlug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	regs, err := s.rosterRepo.ListByTeamScope(ctx, team.ID, models.ScopeSeries, series.ID)
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// ListTournamentRoster returns a team's roster for a single event.
func (s *RosterService) ListTournamentRoster(ctx context.Context, eventID, teamID int) ([]*models.RosterRegistration, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, eventID); err != nil {
		return nil, mapRepoError(err)
	}
	regs, err := s.rosterRepo.ListByTeamScope(ctx, teamID, models.ScopeTournament, eventID)
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (s *RosterService) scopeOf(ctx context.Context, reg *models.RosterRegistration) (models.Scope, error) {
	switch reg.ScopeKind {
	case models.ScopeTournament:
		tournament, err := s.tournamentRepo.GetByID(ctx, reg.ScopeID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		return tournament, nil
	case models.ScopeSeries:
		series, err := s.seriesRepo.GetByID(ctx, reg.ScopeID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		return series, nil
	default:
		return nil, fmt.Errorf("unknown scope kind %q", reg.ScopeKind)
	}
}

func (s *RosterService) checkCapacity(ctx context.Context, teamID int, kind models.ScopeKind, scopeID, maxPlayers, adding int) error {
	if maxPlayers <= 0 {
		return nil
	}
	count, err := s.rosterRepo.CountByTeamScope(ctx, nil, teamID, kind, scopeID)
	if err != nil {
		return err
	}
	if count+adding > maxPlayers {
		return ErrRosterFull
	}
	return nil
}

// mapRepoError lifts repository sentinels into service-level errors.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrSeriesNotFound):
		return ErrSeriesNotFound
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrInvitationNotFound):
		return ErrInvitationNotFound
	case errors.Is(err, repositories.ErrRegistrationNotFound):
		return ErrRegistrationNotFound
	case errors.Is(err, repositories.ErrPaymentBatchNotFound):
		return ErrPaymentBatchNotFound
	case errors.Is(err, repositories.ErrRegistrationConflict):
		return ErrAlreadyRegistered
	default:
		return err
	}
}
