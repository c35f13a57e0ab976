package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openseries/roster-system/middleware"
	"github.com/openseries/roster-system/services"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(is *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: is}
}

type inviteInput struct {
	ToPlayerID int `json:"to_player_id"`
}

func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	seriesSlug := chi.URLParam(r, "seriesSlug")
	teamSlug := chi.URLParam(r, "teamSlug")

	var input inviteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	inv, err := h.invitationService.Invite(r.Context(), seriesSlug, teamSlug, input.ToPlayerID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, inv, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Accept resolves a pending invitation and creates the roster registration
// in the same transaction. Only the invited player may call it.
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	invitationID, err := getIDFromURL(r, "invitationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	reg, err := h.invitationService.Accept(r.Context(), invitationID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, reg, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InvitationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	invitationID, err := getIDFromURL(r, "invitationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.invitationService.Decline(r.Context(), invitationID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *InvitationHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	seriesSlug := chi.URLParam(r, "seriesSlug")
	teamSlug := chi.URLParam(r, "teamSlug")

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	invitations, err := h.invitationService.ListSent(r.Context(), seriesSlug, teamSlug, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, invitations, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
