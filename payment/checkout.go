package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found or already resolved")
	ErrCheckoutFailed  = errors.New("failed to create checkout session")
)

// CheckoutClient implements Gateway against a hosted checkout-session API.
// StartCheckout creates the session; the terminal callbacks stay registered
// under the session id until Resolve is called by whatever receives the
// gateway's completion notification (redirect landing or webhook relay).
type CheckoutClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu      sync.Mutex
	pending map[string]callbacks
}

type callbacks struct {
	onSuccess func(GatewayResponse)
	onFailure func(message string)
}

func NewCheckoutClient(baseURL, apiKey string) *CheckoutClient {
	return &CheckoutClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pending:    make(map[string]callbacks),
	}
}

type createSessionRequest struct {
	Amount         int64    `json:"amount"`
	Metadata       Metadata `json:"metadata"`
	IdempotencyKey string   `json:"idempotency_key"`
}

type createSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

func (c *CheckoutClient) StartCheckout(ctx context.Context, amount int64, meta Metadata, onSuccess func(GatewayResponse), onFailure func(message string)) error {
	body, err := json.Marshal(createSessionRequest{
		Amount:         amount,
		Metadata:       meta,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned %s", ErrCheckoutFailed, resp.Status)
	}

	var session createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	c.mu.Lock()
	c.pending[session.SessionID] = callbacks{onSuccess: onSuccess, onFailure: onFailure}
	c.mu.Unlock()

	return nil
}

// Resolve fires the terminal callback registered for the session and forgets
// it. Calling Resolve twice for the same session is a no-op the second time,
// which keeps duplicate gateway notifications harmless.
func (c *CheckoutClient) Resolve(sessionID string, succeeded bool, reference, message string) error {
	c.mu.Lock()
	cb, ok := c.pending[sessionID]
	if ok {
		delete(c.pending, sessionID)
	}
	c.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	if succeeded {
		cb.onSuccess(GatewayResponse{SessionID: sessionID, Reference: reference})
	} else {
		cb.onFailure(message)
	}
	return nil
}
