package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/services"
)

type jsonResponse map[string]interface{}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter %q", param, raw)
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // programmer error: dst is not a pointer
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// errorResponse emits the mutation error body: message plus the optional
// description / action pair.
func errorResponse(w http.ResponseWriter, r *http.Request, status int, body models.MutationError) {
	if err := writeJSON(w, status, body, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err), slog.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", slog.Any("error", err), slog.String("path", r.URL.Path))
	errorResponse(w, r, http.StatusInternalServerError, models.MutationError{
		Message: "the server encountered a problem and could not process your request",
	})
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, models.MutationError{Message: err.Error()})
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusNotFound, models.MutationError{Message: err.Error()})
}

func conflictResponse(w http.ResponseWriter, r *http.Request, body models.MutationError) {
	errorResponse(w, r, http.StatusConflict, body)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, models.MutationError{Message: message})
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, body models.MutationError) {
	errorResponse(w, r, http.StatusForbidden, body)
}

// mapServiceErrorToHTTP translates service-layer errors into HTTP responses.
// An ActionableError keeps its base error's status and adds the description
// and remediation action to the body.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	body := models.MutationError{Message: err.Error()}

	var actionable *services.ActionableError
	if errors.As(err, &actionable) {
		body.Message = actionable.Base.Error()
		body.Description = actionable.Description
		body.ActionHref = actionable.ActionHref
		body.ActionName = actionable.ActionName
	}

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrSeriesNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrRegistrationNotFound),
		errors.Is(err, services.ErrPaymentBatchNotFound):
		errorResponse(w, r, http.StatusNotFound, body)

	case errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrInvitationResolved),
		errors.Is(err, services.ErrRosterFull),
		errors.Is(err, services.ErrFeeRequired):
		conflictResponse(w, r, body)

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrMatchUpNotEligible),
		errors.Is(err, services.ErrNoPlayersInBatch),
		errors.Is(err, services.ErrAmountMismatch):
		errorResponse(w, r, http.StatusBadRequest, body)

	case errors.Is(err, services.ErrNotTeamAdmin),
		errors.Is(err, services.ErrNotInvitedPlayer),
		errors.Is(err, services.ErrWindowClosed):
		forbiddenResponse(w, r, body)

	default:
		serverErrorResponse(w, r, err)
	}
}
