// Package ledger collapses an invitation history into one current record per
// player. Invitations are never deleted, so the raw list can hold several
// rows for the same player; only the newest one is authoritative.
package ledger

import (
	"github.com/openseries/roster-system/models"
)

// GroupLatestByPlayer keeps, for each distinct to_player_id, the invitation
// with the greatest created_at. Equal timestamps are broken by the highest
// id, which keeps the result independent of input order.
func GroupLatestByPlayer(invitations []models.Invitation) map[int]models.Invitation {
	latest := make(map[int]models.Invitation, len(invitations))
	for _, inv := range invitations {
		current, ok := latest[inv.ToPlayerID]
		if !ok || supersedes(inv, current) {
			latest[inv.ToPlayerID] = inv
		}
	}
	return latest
}

func supersedes(candidate, current models.Invitation) bool {
	if candidate.CreatedAt.After(current.CreatedAt) {
		return true
	}
	if candidate.CreatedAt.Equal(current.CreatedAt) {
		return candidate.ID > current.ID
	}
	return false
}

// View is a precomputed snapshot of the invitation history and the current
// roster. Build a new View whenever either list is refetched; all queries on
// an existing View are O(1) and read-only.
type View struct {
	latest   map[int]models.Invitation
	rostered map[int]struct{}
}

// NewView groups the invitation list once and indexes the roster by player.
func NewView(invitations []models.Invitation, roster []models.RosterRegistration) *View {
	rostered := make(map[int]struct{}, len(roster))
	for _, reg := range roster {
		rostered[reg.PlayerID] = struct{}{}
	}
	return &View{
		latest:   GroupLatestByPlayer(invitations),
		rostered: rostered,
	}
}

// Latest returns the current invitation for the player, if any.
func (v *View) Latest(playerID int) (models.Invitation, bool) {
	inv, ok := v.latest[playerID]
	return inv, ok
}

// IsInvited reports whether the player's current invitation is still pending.
func (v *View) IsInvited(playerID int) bool {
	inv, ok := v.latest[playerID]
	return ok && inv.Status == models.InvitationPending
}

// IsPlayerInRoster reports whether the player already holds a registration.
func (v *View) IsPlayerInRoster(playerID int) bool {
	_, ok := v.rostered[playerID]
	return ok
}

// IsAddable reports whether the player may be offered an invite or a direct
// add: not already rostered and no pending invitation outstanding.
func (v *View) IsAddable(playerID int) bool {
	return !v.IsInvited(playerID) && !v.IsPlayerInRoster(playerID)
}
