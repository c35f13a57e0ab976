// Package client is the Go client for the roster backend's JSON surface.
// The backend stays authoritative for every rule; this client only shapes
// requests, attaches the anti-forgery token, and turns non-2xx bodies into
// MutationError values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openseries/roster-system/models"
)

const (
	antiForgeryHeader = "X-Anti-Forgery-Token"
	antiForgeryCookie = "anti_forgery"
)

// CredentialSource supplies the session cookie and the anti-forgery token
// for state-changing requests. Token acquisition is owned by the auth layer,
// not by this package. The backend checks the token with a double-submit
// cookie, so mutations carry it both as a header and as the anti_forgery
// cookie.
type CredentialSource interface {
	SessionCookie() *http.Cookie
	AntiForgeryToken() string
}

type Client struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
}

func New(baseURL string, creds CredentialSource) *Client {
	return &Client{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RegistrationPatch is a partial update of a roster registration. Nil fields
// are left untouched.
type RegistrationPatch struct {
	Role      *models.RosterRole `json:"role,omitempty"`
	IsPlaying *bool              `json:"is_playing,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p RegistrationPatch) Empty() bool {
	return p.Role == nil && p.IsPlaying == nil
}

// DiffAgainst drops the fields that already hold the current value, so a
// no-op edit produces an empty patch and no request.
func (p RegistrationPatch) DiffAgainst(current *models.RosterRegistration) RegistrationPatch {
	var diff RegistrationPatch
	if p.Role != nil && *p.Role != current.Role {
		diff.Role = p.Role
	}
	if p.IsPlaying != nil && *p.IsPlaying != current.IsPlaying {
		diff.IsPlaying = p.IsPlaying
	}
	return diff
}

func (c *Client) RegisterSelf(ctx context.Context, seriesSlug, teamSlug string) (*models.RosterRegistration, error) {
	var reg models.RosterRegistration
	path := fmt.Sprintf("/series/%s/team/%s/register-self", seriesSlug, teamSlug)
	if err := c.do(ctx, http.MethodPost, path, nil, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *Client) Invite(ctx context.Context, seriesSlug, teamSlug string, toPlayerID int) (*models.Invitation, error) {
	var inv models.Invitation
	path := fmt.Sprintf("/series/%s/team/%s/invite", seriesSlug, teamSlug)
	body := map[string]int{"to_player_id": toPlayerID}
	if err := c.do(ctx, http.MethodPost, path, body, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) AcceptInvitation(ctx context.Context, id int) (*models.RosterRegistration, error) {
	var reg models.RosterRegistration
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/invitations/%d/accept", id), nil, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *Client) DeclineInvitation(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/invitations/%d/decline", id), nil, nil)
}

func (c *Client) AddToRoster(ctx context.Context, eventID, teamID, playerID int) (*models.RosterRegistration, error) {
	var reg models.RosterRegistration
	path := fmt.Sprintf("/tournament/%d/team/%d/roster", eventID, teamID)
	body := map[string]int{"player_id": playerID}
	if err := c.do(ctx, http.MethodPost, path, body, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *Client) RemoveFromRoster(ctx context.Context, registrationID, teamID, eventID int) error {
	body := map[string]int{"event_id": eventID, "team_id": teamID}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/roster/%d", registrationID), body, nil)
}

func (c *Client) UpdateRegistration(ctx context.Context, registrationID int, patch RegistrationPatch) (*models.RosterRegistration, error) {
	var reg models.RosterRegistration
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/roster/%d", registrationID), patch, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *Client) SeriesRoster(ctx context.Context, seriesSlug, teamSlug string) ([]models.RosterRegistration, error) {
	var roster []models.RosterRegistration
	path := fmt.Sprintf("/series/%s/team/%s/roster", seriesSlug, teamSlug)
	if err := c.do(ctx, http.MethodGet, path, nil, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (c *Client) SeriesInvitationsSent(ctx context.Context, seriesSlug, teamSlug string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	path := fmt.Sprintf("/series/%s/team/%s/invitations-sent", seriesSlug, teamSlug)
	if err := c.do(ctx, http.MethodGet, path, nil, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (c *Client) TournamentRoster(ctx context.Context, eventID, teamID int) ([]models.RosterRegistration, error) {
	var roster []models.RosterRegistration
	path := fmt.Sprintf("/tournament/%d/team/%d/roster", eventID, teamID)
	if err := c.do(ctx, http.MethodGet, path, nil, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if cookie := c.creds.SessionCookie(); cookie != nil {
			req.AddCookie(cookie)
		}
		if method != http.MethodGet {
			token := c.creds.AntiForgeryToken()
			req.Header.Set(antiForgeryHeader, token)
			req.AddCookie(&http.Cookie{Name: antiForgeryCookie, Value: token})
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if dst == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into a MutationError. A body that is
// not a MutationError JSON object collapses to "<statusText> (<status>)".
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var me models.MutationError
	if err := json.Unmarshal(raw, &me); err == nil && me.Message != "" {
		return &me
	}
	return &models.MutationError{
		Message: fmt.Sprintf("%s (%d)", http.StatusText(resp.StatusCode), resp.StatusCode),
	}
}
