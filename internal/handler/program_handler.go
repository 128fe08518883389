package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vezba/fitness-backend/internal/dto"
	"github.com/vezba/fitness-backend/internal/middleware"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/service"
)

type ProgramHandler struct {
	svc       service.ProgramService
	jwtSecret []byte
}

func NewProgramHandler(svc service.ProgramService, jwtSecret []byte) *ProgramHandler {
	return &ProgramHandler{svc: svc, jwtSecret: jwtSecret}
}

func (h *ProgramHandler) RegisterRoutes(e *echo.Echo) {
	programs := e.Group("/api/v1/trainer/programs", middleware.JWTAuth(h.jwtSecret), middleware.RequireRole(models.RoleTrainer))
	programs.POST("", h.Create)
	programs.GET("", h.List)
	programs.GET("/:id", h.Get)
	programs.PUT("/:id", h.Update)
	programs.DELETE("/:id", h.Delete)
	programs.POST("/:id/exercises", h.AddExercise)
	programs.DELETE("/exercises/:id", h.RemoveExercise)
}

func (h *ProgramHandler) Create(c echo.Context) error {
	claims := middleware.Claims(c)

	var req dto.ProgramRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	program, err := h.svc.Create(c.Request().Context(), claims.UserID, service.ProgramInput{
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) List(c echo.Context) error {
	claims := middleware.Claims(c)

	programs, err := h.svc.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, programs)
}

func (h *ProgramHandler) Get(c echo.Context) error {
	programID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}
	claims := middleware.Claims(c)

	program, err := h.svc.Get(c.Request().Context(), claims.UserID, programID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) Update(c echo.Context) error {
	programID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}
	claims := middleware.Claims(c)

	var req dto.ProgramRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	program, err := h.svc.Update(c.Request().Context(), claims.UserID, programID, service.ProgramInput{
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) Delete(c echo.Context) error {
	programID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}
	claims := middleware.Claims(c)

	if err := h.svc.Delete(c.Request().Context(), claims.UserID, programID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProgramHandler) AddExercise(c echo.Context) error {
	programID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}
	claims := middleware.Claims(c)

	var req dto.ExerciseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	exercise, err := h.svc.AddExercise(c.Request().Context(), claims.UserID, programID, service.ExerciseInput{
		Name:     req.Name,
		Sets:     req.Sets,
		Reps:     req.Reps,
		RestSec:  req.RestSec,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, exercise)
}

func (h *ProgramHandler) RemoveExercise(c echo.Context) error {
	exerciseID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid exercise id")
	}
	claims := middleware.Claims(c)

	if err := h.svc.RemoveExercise(c.Request().Context(), claims.UserID, exerciseID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
