package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openseries/roster-system/services"
)

type SeriesHandler struct {
	seriesService *services.SeriesService
}

func NewSeriesHandler(ss *services.SeriesService) *SeriesHandler {
	return &SeriesHandler{seriesService: ss}
}

func (h *SeriesHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	series, err := h.seriesService.GetBySlug(r.Context(), chi.URLParam(r, "seriesSlug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, series, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.seriesService.ListTournaments(r.Context(), chi.URLParam(r, "seriesSlug"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, tournaments, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
