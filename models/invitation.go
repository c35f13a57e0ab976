package models

import "time"

// InvitationStatus mirrors the ENUM in the database.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// Terminal reports whether the status admits no further transition.
func (s InvitationStatus) Terminal() bool {
	return s == InvitationAccepted || s == InvitationDeclined || s == InvitationExpired
}

// Invitation is an admin-issued offer for a player to join a team's series
// roster. Rows are immutable except for the status field and are never
// deleted; superseded invitations stay around as history.
type Invitation struct {
	ID         int              `json:"id" db:"id"`
	SeriesID   int              `json:"series_id" db:"series_id"`
	TeamID     int              `json:"team_id" db:"team_id"`
	FromUserID int              `json:"from_user_id" db:"from_user_id"`
	ToPlayerID int              `json:"to_player_id" db:"to_player_id"`
	Status     InvitationStatus `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`

	ToPlayer *Player `json:"to_player,omitempty" db:"-"`
}
