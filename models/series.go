package models

import "time"

// SeriesType mirrors the ENUM in the database.
type SeriesType string

const (
	SeriesMixed  SeriesType = "Mixed"
	SeriesOpens  SeriesType = "Opens"
	SeriesWomens SeriesType = "Womens"
)

// Series is a season-long umbrella grouping tournaments under shared roster rules.
type Series struct {
	ID               int        `json:"id" db:"id"`
	Slug             string     `json:"slug" db:"slug"`
	Name             string     `json:"name" db:"name"`
	Category         string     `json:"category" db:"category"`
	Type             SeriesType `json:"type" db:"type"`
	StartDate        time.Time  `json:"start_date" db:"start_date"`
	EndDate          time.Time  `json:"end_date" db:"end_date"`
	RosterMaxPlayers int        `json:"roster_max_players" db:"roster_max_players"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}

// EligibilityWindow returns the range in which roster actions are permitted
// for this series.
func (s *Series) EligibilityWindow() (time.Time, time.Time) {
	return s.StartDate, s.EndDate
}
