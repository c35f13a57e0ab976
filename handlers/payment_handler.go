package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/payment"
	"github.com/openseries/roster-system/services"
)

// PaymentWebhookHandler receives asynchronous settlement events from the
// payment gateway. Deliveries are authenticated by HMAC signature, not by a
// user session, so the route sits outside the auth middleware.
type PaymentWebhookHandler struct {
	paymentService *services.PaymentService
	webhookSecret  []byte
}

func NewPaymentWebhookHandler(ps *services.PaymentService, webhookSecret string) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		paymentService: ps,
		webhookSecret:  []byte(webhookSecret),
	}
}

type webhookEvent struct {
	Type     string           `json:"type"` // "checkout.confirmed" or "checkout.failed"
	Amount   int64            `json:"amount"`
	Metadata payment.Metadata `json:"metadata"`
}

func (h *PaymentWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1_048_576))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	signature := r.Header.Get(payment.SignatureHeader)
	if !payment.VerifySignature(h.webhookSecret, body, signature) {
		slog.Warn("rejected webhook with bad signature", slog.String("remote", r.RemoteAddr))
		unauthorizedResponse(w, r, "invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if event.Metadata.BatchID == "" {
		errorResponse(w, r, http.StatusBadRequest, models.MutationError{Message: "webhook event names no batch"})
		return
	}

	switch event.Type {
	case "checkout.confirmed":
		batch, err := h.paymentService.HandleConfirmation(r.Context(), event.Metadata, event.Amount)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		slog.Info("payment batch confirmed",
			slog.String("batch_id", batch.ID),
			slog.Int("players", len(batch.PlayerIDs)),
			slog.Int64("amount", batch.Amount))
		if err := writeJSON(w, http.StatusOK, batch, nil); err != nil {
			serverErrorResponse(w, r, err)
		}

	case "checkout.failed":
		if err := h.paymentService.HandleFailure(r.Context(), event.Metadata, event.Amount); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		slog.Info("payment batch failed", slog.String("batch_id", event.Metadata.BatchID))
		w.WriteHeader(http.StatusOK)

	default:
		errorResponse(w, r, http.StatusBadRequest, models.MutationError{Message: "unknown webhook event type"})
	}
}
