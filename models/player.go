package models

import "time"

// MatchUp is the attribute used for division eligibility matching.
type MatchUp string

const (
	MatchUpMale   MatchUp = "male"
	MatchUpFemale MatchUp = "female"
)

type Player struct {
	ID        int       `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	MatchUp   MatchUp   `json:"match_up" db:"match_up"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
