package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vezba/fitness-backend/internal/service"
)

func TestErrorHandler_DomainCodes(t *testing.T) {
	cases := []struct {
		err    *service.Error
		status int
	}{
		{service.ErrTermNotFound, http.StatusNotFound},
		{service.ErrTermFull, http.StatusConflict},
		{service.ErrAlreadyEnrolled, http.StatusConflict},
		{service.ErrNotEnrolled, http.StatusConflict},
		{service.ErrTooLate, http.StatusUnprocessableEntity},
		{service.ErrCancelWithin60Min, http.StatusUnprocessableEntity},
		{service.ErrTermNotFinished, http.StatusUnprocessableEntity},
		{service.ErrNoTrainerSelected, http.StatusUnprocessableEntity},
		{service.ErrBadRating, http.StatusBadRequest},
		{service.ErrDifferentTrainer, http.StatusForbidden},
		{service.ErrNotAllowed, http.StatusForbidden},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrChallengeLocked, http.StatusUnauthorized},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.err.Code, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(tc.err, c)

			assert.Equal(t, tc.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.err.Code, body["code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token"), c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing bearer token", body["message"])
}

func TestErrorHandler_UnknownError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(assert.AnError, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
