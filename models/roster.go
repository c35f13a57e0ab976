package models

import "time"

// RosterRole mirrors the ENUM in the database.
type RosterRole string

const (
	RolePlayer         RosterRole = "PLAYER"
	RoleCaptain        RosterRole = "CAP"
	RoleSpiritCaptain  RosterRole = "SCAP"
	RoleCoach          RosterRole = "COACH"
	RoleAssistantCoach RosterRole = "ACOACH"
	RoleManager        RosterRole = "MNGR"
)

// ScopeKind distinguishes which table a registration's scope id points at.
type ScopeKind string

const (
	ScopeSeries     ScopeKind = "series"
	ScopeTournament ScopeKind = "tournament"
)

// RosterRegistration ties a player to a team within one competitive scope.
// At most one active registration exists per (player, team, scope); the
// uniqueness is owned by the database, callers only translate the conflict.
type RosterRegistration struct {
	ID        int        `json:"id" db:"id"`
	TeamID    int        `json:"team_id" db:"team_id"`
	PlayerID  int        `json:"player_id" db:"player_id"`
	ScopeKind ScopeKind  `json:"scope_kind" db:"scope_kind"`
	ScopeID   int        `json:"scope_id" db:"scope_id"`
	Role      RosterRole `json:"role" db:"role"`
	IsPlaying bool       `json:"is_playing" db:"is_playing"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
