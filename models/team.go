package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// AdminIDs is the set of players allowed to manage this team's rosters.
	AdminIDs []int    `json:"admin_ids,omitempty" db:"-"`
	Admins   []Player `json:"admins,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// HasAdmin reports whether the given player id is one of the team admins.
func (t *Team) HasAdmin(playerID int) bool {
	for _, id := range t.AdminIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
