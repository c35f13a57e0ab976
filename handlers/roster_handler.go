package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openseries/roster-system/middleware"
	"github.com/openseries/roster-system/services"
)

type RosterHandler struct {
	rosterService *services.RosterService
}

func NewRosterHandler(rs *services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rs}
}

// RegisterSelf puts the authenticated player on a series roster. No admin
// rights required; the window and match-up checks live in the service.
func (h *RosterHandler) RegisterSelf(w http.ResponseWriter, r *http.Request) {
	seriesSlug := chi.URLParam(r, "seriesSlug")
	teamSlug := chi.URLParam(r, "teamSlug")

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	reg, err := h.rosterService.RegisterSelf(r.Context(), seriesSlug, teamSlug, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, reg, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type addToRosterInput struct {
	PlayerID int `json:"player_id"`
}

// AddToRoster adds a player to a tournament roster. For fee-carrying
// tournaments the service refuses with a checkout action instead; the
// roster write then arrives through the payment webhook.
func (h *RosterHandler) AddToRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input addToRosterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	reg, err := h.rosterService.AddToRoster(r.Context(), eventID, teamID, input.PlayerID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, reg, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type removeFromRosterInput struct {
	EventID int `json:"event_id"`
	TeamID  int `json:"team_id"`
}

func (h *RosterHandler) RemoveFromRoster(w http.ResponseWriter, r *http.Request) {
	registrationID, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input removeFromRosterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	err = h.rosterService.RemoveFromRoster(r.Context(), registrationID, input.TeamID, input.EventID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RosterHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID, err := getIDFromURL(r, "registrationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateRegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	reg, err := h.rosterService.UpdateRegistration(r.Context(), registrationID, currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, reg, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) ListSeriesRoster(w http.ResponseWriter, r *http.Request) {
	seriesSlug := chi.URLParam(r, "seriesSlug")
	teamSlug := chi.URLParam(r, "teamSlug")

	roster, err := h.rosterService.ListSeriesRoster(r.Context(), seriesSlug, teamSlug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, roster, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) ListTournamentRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roster, err := h.rosterService.ListTournamentRoster(r.Context(), eventID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, roster, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
