package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vezba/fitness-backend/internal/dto"
	"github.com/vezba/fitness-backend/internal/middleware"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/service"
)

type BookingHandler struct {
	svc       service.BookingService
	billing   service.BillingService
	jwtSecret []byte
}

func NewBookingHandler(svc service.BookingService, billing service.BillingService, jwtSecret []byte) *BookingHandler {
	return &BookingHandler{svc: svc, billing: billing, jwtSecret: jwtSecret}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	client := e.Group("/api/v1", middleware.JWTAuth(h.jwtSecret), middleware.RequireRole(models.RoleClient))
	client.GET("/terms", h.ListAvailableTerms)
	client.POST("/terms/:id/bookings", h.BookTerm)
	client.DELETE("/terms/:id/bookings", h.CancelBooking)
	client.GET("/me/enrollments", h.MyEnrollments)
	client.GET("/me/invoices", h.MyInvoices)
}

func (h *BookingHandler) BookTerm(c echo.Context) error {
	termID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid term id")
	}
	claims := middleware.Claims(c)

	enrollment, err := h.svc.BookTerm(c.Request().Context(), claims.UserID, termID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToEnrollmentResponse(enrollment))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	termID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid term id")
	}
	claims := middleware.Claims(c)

	if err := h.svc.CancelBooking(c.Request().Context(), claims.UserID, termID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) ListAvailableTerms(c echo.Context) error {
	claims := middleware.Claims(c)

	terms, err := h.svc.ListAvailableTerms(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	resp := make([]dto.TermResponse, len(terms))
	for i := range terms {
		resp[i] = dto.ToTermResponse(&terms[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) MyEnrollments(c echo.Context) error {
	claims := middleware.Claims(c)

	enrollments, err := h.svc.MyEnrollments(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	resp := make([]dto.EnrollmentResponse, len(enrollments))
	for i := range enrollments {
		resp[i] = dto.ToEnrollmentResponse(&enrollments[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) MyInvoices(c echo.Context) error {
	claims := middleware.Claims(c)

	invoices, err := h.billing.ListInvoices(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoices)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
