package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/vezba/fitness-backend/internal/dto"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/service"
)

// --- Mock BookingService ---

type mockBookingService struct {
	bookFn   func(ctx context.Context, userID, termID uint) (*models.Enrollment, error)
	cancelFn func(ctx context.Context, userID, termID uint) error
	listFn   func(ctx context.Context, userID uint) ([]models.TrainingTerm, error)
	mineFn   func(ctx context.Context, userID uint) ([]models.Enrollment, error)
}

func (m *mockBookingService) BookTerm(ctx context.Context, userID, termID uint) (*models.Enrollment, error) {
	return m.bookFn(ctx, userID, termID)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, userID, termID uint) error {
	return m.cancelFn(ctx, userID, termID)
}
func (m *mockBookingService) ListAvailableTerms(ctx context.Context, userID uint) ([]models.TrainingTerm, error) {
	return m.listFn(ctx, userID)
}
func (m *mockBookingService) MyEnrollments(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	return m.mineFn(ctx, userID)
}

func clientContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uint) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("claims", &service.TokenClaims{UserID: userID, Role: models.RoleClient})
	return c
}

// --- Tests ---

func TestBookTerm_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, userID, termID uint) (*models.Enrollment, error) {
			return &models.Enrollment{
				ID:     1,
				TermID: termID,
				UserID: userID,
				Status: models.StatusEnrolled,
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/terms/4/bookings", nil)
	rec := httptest.NewRecorder()
	c := clientContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewBookingHandler(svc, nil, nil)
	err := h.BookTerm(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.EnrollmentResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(4), resp.TermID)
	assert.Equal(t, uint(7), resp.UserID)
	assert.Equal(t, models.StatusEnrolled, resp.Status)
}

func TestBookTerm_Handler_InvalidID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/terms/abc/bookings", nil)
	rec := httptest.NewRecorder()
	c := clientContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	h := NewBookingHandler(&mockBookingService{}, nil, nil)
	err := h.BookTerm(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestBookTerm_Handler_DomainErrorPassesThrough(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, userID, termID uint) (*models.Enrollment, error) {
			return nil, service.ErrTermFull
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/terms/4/bookings", nil)
	rec := httptest.NewRecorder()
	c := clientContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewBookingHandler(svc, nil, nil)
	err := h.BookTerm(c)

	// The central error handler turns domain errors into JSON; the handler
	// itself just returns them.
	assert.ErrorIs(t, err, service.ErrTermFull)
}

func TestCancelBooking_Handler_Success(t *testing.T) {
	var gotUser, gotTerm uint
	svc := &mockBookingService{
		cancelFn: func(ctx context.Context, userID, termID uint) error {
			gotUser, gotTerm = userID, termID
			return nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/terms/9/bookings", nil)
	rec := httptest.NewRecorder()
	c := clientContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("9")

	h := NewBookingHandler(svc, nil, nil)
	err := h.CancelBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(7), gotUser)
	assert.Equal(t, uint(9), gotTerm)
}

func TestListAvailableTerms_Handler(t *testing.T) {
	svc := &mockBookingService{
		listFn: func(ctx context.Context, userID uint) ([]models.TrainingTerm, error) {
			return []models.TrainingTerm{
				{ID: 1, TrainerID: 2, Type: models.TermGroup, Capacity: 10, EnrolledCount: 4},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/terms", nil)
	rec := httptest.NewRecorder()
	c := clientContext(e, req, rec, 7)

	h := NewBookingHandler(svc, nil, nil)
	err := h.ListAvailableTerms(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.TermResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, 6, resp[0].SeatsAvailable)
}
