package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/services"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) models.MutationError {
	t.Helper()
	var body models.MutationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", services.ErrSeriesNotFound, http.StatusNotFound},
		{"conflict", services.ErrAlreadyInvited, http.StatusConflict},
		{"resolved invitation", services.ErrInvitationResolved, http.StatusConflict},
		{"roster full", services.ErrRosterFull, http.StatusConflict},
		{"bad amount", services.ErrAmountMismatch, http.StatusBadRequest},
		{"window closed", services.ErrWindowClosed, http.StatusForbidden},
		{"not admin", services.ErrNotTeamAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)

			mapServiceErrorToHTTP(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeErrorBody(t, rec)
			assert.Equal(t, tt.err.Error(), body.Message)
			assert.Empty(t, body.Description)
		})
	}
}

func TestMapServiceErrorToHTTPActionable(t *testing.T) {
	err := &services.ActionableError{
		Base:        services.ErrFeeRequired,
		Description: "Adding players requires a fee of 2500 per player.",
		ActionHref:  "/tournament/20/team/30/checkout",
		ActionName:  "Go to payment",
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	mapServiceErrorToHTTP(rec, req, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, services.ErrFeeRequired.Error(), body.Message)
	assert.Equal(t, err.Description, body.Description)
	assert.Equal(t, err.ActionHref, body.ActionHref)
	assert.Equal(t, err.ActionName, body.ActionName)
	assert.True(t, body.HasAction())
}

func TestMapServiceErrorToHTTPUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	mapServiceErrorToHTTP(rec, req, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorBody(t, rec)
	// Internal details never leak into the response body.
	assert.NotContains(t, body.Message, assert.AnError.Error())
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		PlayerID int `json:"player_id"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"player_id": 7}`))
		var dst payload
		require.NoError(t, readJSON(httptest.NewRecorder(), req, &dst))
		assert.Equal(t, 7, dst.PlayerID)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"player_id": 7, "bogus": true}`))
		var dst payload
		err := readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var dst payload
		assert.EqualError(t, readJSON(httptest.NewRecorder(), req, &dst), "body must not be empty")
	})

	t.Run("rejects trailing values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"player_id": 7}{"player_id": 8}`))
		var dst payload
		assert.EqualError(t, readJSON(httptest.NewRecorder(), req, &dst), "body must only contain a single JSON value")
	})
}
