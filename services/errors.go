package services

import "errors"

// Shared errors mapped to HTTP by the handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed   = errors.New("validation failed")
	ErrWindowClosed       = errors.New("roster changes are closed for this scope")
	ErrMatchUpNotEligible = errors.New("player's match-up is not eligible for this division")
	ErrNoPlayersInBatch   = errors.New("payment batch names no players")
	ErrAmountMismatch     = errors.New("payment amount does not match the batch fee")

	// Conflicts
	ErrAlreadyRegistered  = errors.New("player is already on this roster")
	ErrAlreadyInvited     = errors.New("player already has a pending invitation")
	ErrInvitationResolved = errors.New("invitation has already been resolved")
	ErrRosterFull         = errors.New("roster is full")
	ErrFeeRequired        = errors.New("roster additions for this tournament require payment")

	// Authorization
	ErrNotTeamAdmin     = errors.New("only a team admin can perform this action")
	ErrNotInvitedPlayer = errors.New("only the invited player can respond to this invitation")

	// Entity-specific not-found variants
	ErrSeriesNotFound       = errors.New("series not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrRegistrationNotFound = errors.New("roster registration not found")
	ErrPaymentBatchNotFound = errors.New("payment batch not found")
)

// ActionableError decorates a base error with the remediation the user has
// to complete elsewhere before retrying. Handlers surface it as the
// description/action fields of the error body; the base error still decides
// the HTTP status.
type ActionableError struct {
	Base        error
	Description string
	ActionHref  string
	ActionName  string
}

func (e *ActionableError) Error() string { return e.Base.Error() }

func (e *ActionableError) Unwrap() error { return e.Base }
