package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vezba/fitness-backend/internal/service"
)

// statusByCode maps the symbolic domain codes to HTTP statuses. The codes
// themselves are the stable contract; this table is the only place the
// boundary decides how they travel.
var statusByCode = map[string]int{
	"TERM_NOT_FOUND":              http.StatusNotFound,
	"PROGRAM_NOT_FOUND":           http.StatusNotFound,
	"USER_NOT_FOUND":              http.StatusNotFound,
	"CHALLENGE_NOT_FOUND":         http.StatusNotFound,
	"FULL":                        http.StatusConflict,
	"ALREADY_ENROLLED":            http.StatusConflict,
	"NOT_ENROLLED":                http.StatusConflict,
	"EMAIL_TAKEN":                 http.StatusConflict,
	"CHALLENGE_CONSUMED":          http.StatusConflict,
	"IN_USE":                      http.StatusConflict,
	"TOO_LATE":                    http.StatusUnprocessableEntity,
	"CANCELED":                    http.StatusUnprocessableEntity,
	"CANNOT_CANCEL_WITHIN_60_MIN": http.StatusUnprocessableEntity,
	"TERM_NOT_FINISHED":           http.StatusUnprocessableEntity,
	"BAD_RATING":                  http.StatusBadRequest,
	"BAD_CAPACITY":                http.StatusBadRequest,
	"START_IN_PAST":               http.StatusBadRequest,
	"BAD_MONTH":                   http.StatusBadRequest,
	"NO_TRAINER_SELECTED":         http.StatusUnprocessableEntity,
	"DIFFERENT_TRAINER":           http.StatusForbidden,
	"NOT_ALLOWED":                 http.StatusForbidden,
	"USER_BLOCKED":                http.StatusForbidden,
	"INVALID_CREDENTIALS":         http.StatusUnauthorized,
	"BAD_CODE":                    http.StatusUnauthorized,
	"CHALLENGE_EXPIRED":           http.StatusUnauthorized,
	"CHALLENGE_LOCKED":            http.StatusUnauthorized,
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var domainErr *service.Error
	if errors.As(err, &domainErr) {
		code, ok := statusByCode[domainErr.Code]
		if !ok {
			code = http.StatusBadRequest
		}
		_ = c.JSON(code, map[string]string{"code": domainErr.Code, "message": domainErr.Message})
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, map[string]string{"message": msg})
}
