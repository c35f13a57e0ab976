// Package payment holds the contract with the third-party checkout gateway
// and a client for its hosted session API. The gateway owns its entire
// checkout UI; this side only starts a session and waits for exactly one
// terminal callback. Nothing here polls.
package payment

import "context"

// Metadata identifies what a checkout session is paying for. It travels to
// the gateway verbatim and comes back on the confirmation webhook, which is
// how the backend knows which registrations to commit.
type Metadata struct {
	BatchID      string `json:"batch_id"`
	TournamentID int    `json:"tournament_id"`
	TeamID       int    `json:"team_id"`
	PlayerIDs    []int  `json:"player_ids"`
}

// GatewayResponse is the gateway's terminal success payload.
type GatewayResponse struct {
	SessionID string `json:"session_id"`
	Reference string `json:"reference"`
}

// Gateway starts a checkout for the given amount (minor currency units) and
// fires exactly one of the two callbacks when the gateway reports a terminal
// outcome. Implementations must never fire both, and must not retry on
// behalf of the caller.
type Gateway interface {
	StartCheckout(ctx context.Context, amount int64, meta Metadata, onSuccess func(GatewayResponse), onFailure func(message string)) error
}
