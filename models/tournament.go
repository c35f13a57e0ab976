package models

import "time"

// Tournament is a single event inside a series. Player registration is
// time-boxed independently of the event dates, and may carry a per-player fee.
type Tournament struct {
	ID                          int        `json:"id" db:"id"`
	SeriesID                    int        `json:"series_id" db:"series_id"`
	Slug                        string     `json:"slug" db:"slug"`
	Name                        string     `json:"name" db:"name"`
	Category                    string     `json:"category" db:"category"`
	Type                        SeriesType `json:"type" db:"type"`
	StartDate                   time.Time  `json:"start_date" db:"start_date"`
	EndDate                     time.Time  `json:"end_date" db:"end_date"`
	PlayerRegistrationStartDate time.Time  `json:"player_registration_start_date" db:"player_registration_start_date"`
	PlayerRegistrationEndDate   time.Time  `json:"player_registration_end_date" db:"player_registration_end_date"`

	// PlayerFee is in minor currency units. Zero means roster additions are free
	// and commit immediately; a positive fee gates additions behind a payment batch.
	PlayerFee        int64     `json:"player_fee" db:"player_fee"`
	RosterMaxPlayers int       `json:"roster_max_players" db:"roster_max_players"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	Series *Series `json:"series,omitempty" db:"-"`
}

// EligibilityWindow returns the player registration window.
func (t *Tournament) EligibilityWindow() (time.Time, time.Time) {
	return t.PlayerRegistrationStartDate, t.PlayerRegistrationEndDate
}

// Scope is any competitive scope a roster is attached to (a series or a
// single tournament).
type Scope interface {
	EligibilityWindow() (start, end time.Time)
}
