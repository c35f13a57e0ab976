// Package eligibility holds the pure predicates deciding whether a roster
// action is permitted right now. No I/O happens here; the backend re-checks
// every rule, so on the client side these only gate affordances early.
package eligibility

import (
	"time"

	"github.com/openseries/roster-system/models"
)

// WithinWindow reports whether now falls inside [start, end], inclusive on
// both ends. A zero bound means the window is unknown and the check fails
// closed.
func WithinWindow(now, start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	if now.Before(start) {
		return false
	}
	return !now.After(end)
}

// IsTeamAdmin reports whether the user manages the team.
func IsTeamAdmin(userID int, team *models.Team) bool {
	if team == nil {
		return false
	}
	return team.HasAdmin(userID)
}

// CanInvite reports whether the user may issue roster invitations for the
// team within the scope's eligibility window.
func CanInvite(userID int, team *models.Team, scope models.Scope, now time.Time) bool {
	return IsTeamAdmin(userID, team) && scopeOpen(scope, now)
}

// CanAdd reports whether the user may add players directly to the roster.
func CanAdd(userID int, team *models.Team, scope models.Scope, now time.Time) bool {
	return IsTeamAdmin(userID, team) && scopeOpen(scope, now)
}

// CanRemove reports whether the user may remove a roster registration.
// Removal is irreversible, so it is never allowed outside the window.
func CanRemove(userID int, team *models.Team, scope models.Scope, now time.Time) bool {
	return IsTeamAdmin(userID, team) && scopeOpen(scope, now)
}

// CanEdit reports whether the user may change a registration's role or
// playing status.
func CanEdit(userID int, team *models.Team, scope models.Scope, now time.Time) bool {
	return IsTeamAdmin(userID, team) && scopeOpen(scope, now)
}

// CanRegisterSelf reports whether a player may self-register onto the team's
// roster. Self-registration needs no admin rights, only an open window.
func CanRegisterSelf(scope models.Scope, now time.Time) bool {
	return scopeOpen(scope, now)
}

// MatchUpAllowed reports whether a player's match-up attribute is eligible
// for the given division. Mixed admits everyone.
func MatchUpAllowed(division models.SeriesType, matchUp models.MatchUp) bool {
	switch division {
	case models.SeriesMixed:
		return matchUp == models.MatchUpMale || matchUp == models.MatchUpFemale
	case models.SeriesOpens:
		return matchUp == models.MatchUpMale
	case models.SeriesWomens:
		return matchUp == models.MatchUpFemale
	default:
		return false
	}
}

func scopeOpen(scope models.Scope, now time.Time) bool {
	if scope == nil {
		return false
	}
	start, end := scope.EligibilityWindow()
	return WithinWindow(now, start, end)
}
