// Package engine orchestrates every roster write: direct adds, invitations,
// fee-gated payment batches, removals and edits. It consults the eligibility
// gate and the invitation ledger before spending a network call, routes every
// failure through the escalation protocol, and reconciles state purely by
// invalidating cache prefixes — results are never merged locally.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openseries/roster-system/cache"
	"github.com/openseries/roster-system/client"
	"github.com/openseries/roster-system/escalate"
	"github.com/openseries/roster-system/ledger"
	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/payment"
)

// Local validation failures. These block an operation before any network
// call is made.
var (
	ErrNoPlayersSelected = errors.New("no players selected for payment")
	ErrInviteInFlight    = errors.New("an invitation to this player is already in flight")
	ErrAlreadyInvited    = errors.New("player already has a pending invitation")
	ErrAlreadyRostered   = errors.New("player is already on the roster")
)

// Op identifies an operation kind for status tracking.
type Op string

const (
	OpRegisterSelf Op = "register-self"
	OpInvite       Op = "invite"
	OpAccept       Op = "accept"
	OpDecline      Op = "decline"
	OpAdd          Op = "add"
	OpBatchPay     Op = "batch-pay"
	OpRemove       Op = "remove"
	OpUpdate       Op = "update"
)

// Status drives UI affordances: disable-while-pending, spinners, banners.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// RosterAPI is the slice of the backend client the coordinator needs.
// *client.Client satisfies it.
type RosterAPI interface {
	RegisterSelf(ctx context.Context, seriesSlug, teamSlug string) (*models.RosterRegistration, error)
	Invite(ctx context.Context, seriesSlug, teamSlug string, toPlayerID int) (*models.Invitation, error)
	AcceptInvitation(ctx context.Context, id int) (*models.RosterRegistration, error)
	DeclineInvitation(ctx context.Context, id int) error
	AddToRoster(ctx context.Context, eventID, teamID, playerID int) (*models.RosterRegistration, error)
	RemoveFromRoster(ctx context.Context, registrationID, teamID, eventID int) error
	UpdateRegistration(ctx context.Context, registrationID int, patch client.RegistrationPatch) (*models.RosterRegistration, error)
	SeriesRoster(ctx context.Context, seriesSlug, teamSlug string) ([]models.RosterRegistration, error)
	SeriesInvitationsSent(ctx context.Context, seriesSlug, teamSlug string) ([]models.Invitation, error)
}

type selectionKey struct {
	tournamentID int
	teamID       int
}

type inviteKey struct {
	seriesSlug string
	teamSlug   string
	playerID   int
}

// Coordinator is safe for concurrent use. No operation is ever auto-retried;
// a failed mutation leaves all persisted state untouched and only the
// explicitly resettable pending selection lives client-side.
type Coordinator struct {
	api     RosterAPI
	gateway payment.Gateway
	bus     cache.Bus

	mu          sync.Mutex
	status      map[Op]Status
	lastFailure map[Op]escalate.Surface
	pending     map[selectionKey][]int
	inflight    map[inviteKey]struct{}
}

func NewCoordinator(api RosterAPI, gateway payment.Gateway, bus cache.Bus) *Coordinator {
	return &Coordinator{
		api:         api,
		gateway:     gateway,
		bus:         bus,
		status:      make(map[Op]Status),
		lastFailure: make(map[Op]escalate.Surface),
		pending:     make(map[selectionKey][]int),
		inflight:    make(map[inviteKey]struct{}),
	}
}

// Status returns the current status for an operation kind.
func (c *Coordinator) Status(op Op) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.status[op]; ok {
		return s
	}
	return StatusIdle
}

// LastFailure returns the escalation surface of the most recent failure for
// an operation kind, if any.
func (c *Coordinator) LastFailure(op Op) (escalate.Surface, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.lastFailure[op]
	return s, ok
}

func (c *Coordinator) begin(op Op) {
	c.mu.Lock()
	c.status[op] = StatusPending
	c.mu.Unlock()
}

func (c *Coordinator) finish(op Op, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status[op] = StatusError
		c.lastFailure[op] = escalate.Classify(err)
		return
	}
	c.status[op] = StatusSuccess
	delete(c.lastFailure, op)
}

// RegisterSelf adds the calling player to a series roster.
func (c *Coordinator) RegisterSelf(ctx context.Context, seriesSlug, teamSlug string) (*models.RosterRegistration, error) {
	c.begin(OpRegisterSelf)
	reg, err := c.api.RegisterSelf(ctx, seriesSlug, teamSlug)
	c.finish(OpRegisterSelf, err)
	if err != nil {
		return nil, err
	}
	c.bus.Invalidate(cache.PrefixSeriesRoster)
	return reg, nil
}

// InviteToRoster issues an invitation. The view, when supplied, is the
// client-side optimization that prevents an obvious duplicate before any
// network call; the backend enforces uniqueness regardless. A second call
// for the same (series, team, player) while one is in flight is rejected
// locally so a double-click cannot fan out into two requests.
func (c *Coordinator) InviteToRoster(ctx context.Context, seriesSlug, teamSlug string, toPlayerID int, view *ledger.View) (*models.Invitation, error) {
	if view != nil {
		if view.IsInvited(toPlayerID) {
			return nil, ErrAlreadyInvited
		}
		if view.IsPlayerInRoster(toPlayerID) {
			return nil, ErrAlreadyRostered
		}
	}

	key := inviteKey{seriesSlug: seriesSlug, teamSlug: teamSlug, playerID: toPlayerID}
	c.mu.Lock()
	if _, busy := c.inflight[key]; busy {
		c.mu.Unlock()
		return nil, ErrInviteInFlight
	}
	c.inflight[key] = struct{}{}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}()

	c.begin(OpInvite)
	inv, err := c.api.Invite(ctx, seriesSlug, teamSlug, toPlayerID)
	c.finish(OpInvite, err)
	if err != nil {
		return nil, err
	}
	c.bus.Invalidate(cache.PrefixSeriesInvitationsSent)
	return inv, nil
}

// AcceptInvitation accepts on behalf of the invited player; the backend
// creates the roster registration as part of acceptance.
func (c *Coordinator) AcceptInvitation(ctx context.Context, id int) (*models.RosterRegistration, error) {
	c.begin(OpAccept)
	reg, err := c.api.AcceptInvitation(ctx, id)
	c.finish(OpAccept, err)
	if err != nil {
		return nil, err
	}
	c.bus.Invalidate(cache.PrefixSeriesRoster)
	c.bus.Invalidate(cache.PrefixSeriesInvitationsSent)
	return reg, nil
}

// DeclineInvitation declines on behalf of the invited player.
func (c *Coordinator) DeclineInvitation(ctx context.Context, id int) error {
	c.begin(OpDecline)
	err := c.api.DeclineInvitation(ctx, id)
	c.finish(OpDecline, err)
	if err != nil {
		return err
	}
	c.bus.Invalidate(cache.PrefixSeriesInvitationsSent)
	return nil
}

// AddToRoster adds a player to a tournament roster. For a free scope the
// registration commits immediately with a single call. For a fee-gated scope
// nothing is persisted: the player joins the in-memory pending selection and
// the add only becomes real when BatchPayAndCommit's success callback fires.
// The returned registration is nil for the deferred path. The view, when
// supplied, reflects the target scope's roster and stops an already-rostered
// player from being added — or, worse, selected and paid for — again.
func (c *Coordinator) AddToRoster(ctx context.Context, tournament *models.Tournament, teamID, playerID int, view *ledger.View) (*models.RosterRegistration, error) {
	if view != nil && view.IsPlayerInRoster(playerID) {
		return nil, ErrAlreadyRostered
	}

	if tournament.PlayerFee > 0 {
		c.mu.Lock()
		defer c.mu.Unlock()
		key := selectionKey{tournamentID: tournament.ID, teamID: teamID}
		for _, id := range c.pending[key] {
			if id == playerID {
				return nil, nil
			}
		}
		c.pending[key] = append(c.pending[key], playerID)
		return nil, nil
	}

	c.begin(OpAdd)
	reg, err := c.api.AddToRoster(ctx, tournament.ID, teamID, playerID)
	c.finish(OpAdd, err)
	if err != nil {
		return nil, err
	}
	c.bus.Invalidate(cache.PrefixTournamentRoster)
	return reg, nil
}

// PendingSelection returns a copy of the players currently selected for a
// fee-gated batch.
func (c *Coordinator) PendingSelection(tournamentID, teamID int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel := c.pending[selectionKey{tournamentID: tournamentID, teamID: teamID}]
	out := make([]int, len(sel))
	copy(out, sel)
	return out
}

// RemoveFromSelection drops a player from the pending selection. Purely
// local; no network call is involved.
func (c *Coordinator) RemoveFromSelection(tournamentID, teamID, playerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := selectionKey{tournamentID: tournamentID, teamID: teamID}
	sel := c.pending[key]
	for i, id := range sel {
		if id == playerID {
			c.pending[key] = append(sel[:i], sel[i+1:]...)
			return
		}
	}
}

// ResetSelection clears the pending selection for a scope.
func (c *Coordinator) ResetSelection(tournamentID, teamID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, selectionKey{tournamentID: tournamentID, teamID: teamID})
}

// BatchPayAndCommit hands the pending selection to the payment gateway for
// amount = fee x selection size. The selection is passed by value: until the
// gateway reports a terminal outcome it stays untouched, and only a
// confirmed success clears it. On failure it is preserved exactly so the
// user can retry without re-selecting players.
func (c *Coordinator) BatchPayAndCommit(ctx context.Context, tournament *models.Tournament, teamID int) error {
	key := selectionKey{tournamentID: tournament.ID, teamID: teamID}

	c.mu.Lock()
	selection := make([]int, len(c.pending[key]))
	copy(selection, c.pending[key])
	c.mu.Unlock()

	if len(selection) == 0 {
		return ErrNoPlayersSelected
	}

	meta := payment.Metadata{
		BatchID:      uuid.NewString(),
		TournamentID: tournament.ID,
		TeamID:       teamID,
		PlayerIDs:    selection,
	}
	amount := tournament.PlayerFee * int64(len(selection))

	c.begin(OpBatchPay)
	err := c.gateway.StartCheckout(ctx, amount, meta,
		func(payment.GatewayResponse) {
			// The backend committed the registrations while confirming the
			// payment; locally there is only the selection to clear and the
			// roster to refetch.
			c.mu.Lock()
			delete(c.pending, key)
			c.mu.Unlock()
			c.finish(OpBatchPay, nil)
			c.bus.Invalidate(cache.PrefixTournamentRoster)
		},
		func(message string) {
			c.finish(OpBatchPay, errors.New(message))
		},
	)
	if err != nil {
		c.finish(OpBatchPay, err)
		return err
	}
	return nil
}

// RemoveFromRoster irreversibly deletes a registration.
func (c *Coordinator) RemoveFromRoster(ctx context.Context, registrationID, teamID, eventID int) error {
	c.begin(OpRemove)
	err := c.api.RemoveFromRoster(ctx, registrationID, teamID, eventID)
	c.finish(OpRemove, err)
	if err != nil {
		return err
	}
	c.bus.Invalidate(cache.PrefixTournamentRoster)
	return nil
}

// UpdateRegistration applies a role / is_playing edit. The patch is diffed
// against the current registration first; an empty diff makes no network
// call at all.
func (c *Coordinator) UpdateRegistration(ctx context.Context, current *models.RosterRegistration, patch client.RegistrationPatch) (*models.RosterRegistration, error) {
	diff := patch.DiffAgainst(current)
	if diff.Empty() {
		return current, nil
	}

	c.begin(OpUpdate)
	reg, err := c.api.UpdateRegistration(ctx, current.ID, diff)
	c.finish(OpUpdate, err)
	if err != nil {
		return nil, err
	}
	switch current.ScopeKind {
	case models.ScopeTournament:
		c.bus.Invalidate(cache.PrefixTournamentRoster)
	default:
		c.bus.Invalidate(cache.PrefixSeriesRoster)
	}
	return reg, nil
}

// Refresh fetches the series roster and the full invitation history in
// parallel and folds them into a ledger view for display and duplicate
// prevention.
func (c *Coordinator) Refresh(ctx context.Context, seriesSlug, teamSlug string) (*ledger.View, error) {
	var (
		roster      []models.RosterRegistration
		invitations []models.Invitation
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = c.api.SeriesRoster(gCtx, seriesSlug, teamSlug)
		return err
	})
	g.Go(func() error {
		var err error
		invitations, err = c.api.SeriesInvitationsSent(gCtx, seriesSlug, teamSlug)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ledger.NewView(invitations, roster), nil
}
