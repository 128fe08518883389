package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vezba/fitness-backend/internal/dto"
	"github.com/vezba/fitness-backend/internal/middleware"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/service"
)

type ScheduleHandler struct {
	svc       service.ScheduleService
	jwtSecret []byte
}

func NewScheduleHandler(svc service.ScheduleService, jwtSecret []byte) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, jwtSecret: jwtSecret}
}

func (h *ScheduleHandler) RegisterRoutes(e *echo.Echo) {
	trainer := e.Group("/api/v1/trainer", middleware.JWTAuth(h.jwtSecret), middleware.RequireRole(models.RoleTrainer))
	trainer.POST("/terms", h.CreateTerm)
	trainer.GET("/terms", h.ListMyTerms)
	trainer.DELETE("/terms/:id", h.CancelTerm)
	trainer.PUT("/terms/:id/program", h.SetTermProgram)
	trainer.GET("/terms/:id/participants", h.ListParticipants)
	trainer.POST("/terms/:id/participants/:userId/rating", h.RateParticipant)
	trainer.POST("/terms/:id/participants/:userId/complete", h.MarkCompleted)
}

func (h *ScheduleHandler) CreateTerm(c echo.Context) error {
	claims := middleware.Claims(c)

	var req dto.CreateTermRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.DurationMin <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "duration_min must be positive")
	}

	term, err := h.svc.CreateTerm(c.Request().Context(), claims.UserID, service.CreateTermInput{
		ProgramID:   req.ProgramID,
		Type:        models.TermType(req.Type),
		StartAt:     req.StartAt,
		DurationMin: req.DurationMin,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToTermResponse(term))
}

func (h *ScheduleHandler) ListMyTerms(c echo.Context) error {
	claims := middleware.Claims(c)

	terms, err := h.svc.ListMyTerms(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	resp := make([]dto.TermResponse, len(terms))
	for i := range terms {
		resp[i] = dto.ToTermResponse(&terms[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ScheduleHandler) CancelTerm(c echo.Context) error {
	termID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid term id")
	}
	claims := middleware.Claims(c)

	if err := h.svc.CancelTerm(c.Request().Context(), claims.UserID, termID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ScheduleHandler) SetTermProgram(c echo.Context) error {
	termID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid term id")
	}
	claims := middleware.Claims(c)

	var req dto.SetTermProgramRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.SetTermProgram(c.Request().Context(), claims.UserID, termID, req.ProgramID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ScheduleHandler) ListParticipants(c echo.Context) error {
	termID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid term id")
	}
	claims := middleware.Claims(c)

	enrollments, err := h.svc.ListParticipants(c.Request().Context(), claims.UserID, termID)
	if err != nil {
		return err
	}

	resp := make([]dto.EnrollmentResponse, len(enrollments))
	for i := range enrollments {
		resp[i] = dto.ToEnrollmentResponse(&enrollments[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ScheduleHandler) RateParticipant(c echo.Context) error {
	termID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid term id")
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	claims := middleware.Claims(c)

	var req dto.RateParticipantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.RateParticipant(c.Request().Context(), claims.UserID, termID, userID, req.Rating, req.Feedback); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ScheduleHandler) MarkCompleted(c echo.Context) error {
	termID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid term id")
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	claims := middleware.Claims(c)

	if err := h.svc.MarkSessionCompleted(c.Request().Context(), claims.UserID, termID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
