package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vezba/fitness-backend/internal/dto"
	"github.com/vezba/fitness-backend/internal/middleware"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/repository"
	"github.com/vezba/fitness-backend/internal/service"
)

type AdminHandler struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	billing   service.BillingService
	auditor   *service.Auditor
	jwtSecret []byte
}

func NewAdminHandler(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	billing service.BillingService,
	auditor *service.Auditor,
	jwtSecret []byte,
) *AdminHandler {
	return &AdminHandler{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		billing:   billing,
		auditor:   auditor,
		jwtSecret: jwtSecret,
	}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/api/v1/admin", middleware.JWTAuth(h.jwtSecret), middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.PATCH("/users/:id/blocked", h.SetBlocked)
	admin.PATCH("/users/:id/trainer", h.AssignTrainer)
	admin.POST("/billing/run", h.RunBilling)
	admin.GET("/billing/:month", h.ListMonth)
	admin.POST("/invoices/:id/paid", h.MarkPaid)
	admin.GET("/audit", h.ListAudit)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepo.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = dto.ToUserResponse(&users[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) SetBlocked(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req dto.SetBlockedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	if _, err := h.userRepo.FindByID(ctx, userID); err != nil {
		return service.ErrUserNotFound
	}
	if err := h.userRepo.SetBlocked(ctx, userID, req.Blocked); err != nil {
		return err
	}

	claims := middleware.Claims(c)
	action := "unblock_user"
	if req.Blocked {
		action = "block_user"
	}
	h.auditor.Record(ctx, "admin", action, claims.UserID, "", strconv.FormatUint(uint64(userID), 10))

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) AssignTrainer(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req dto.AssignTrainerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	trainer, err := h.userRepo.FindByID(ctx, req.TrainerID)
	if err != nil || trainer.Role != models.RoleTrainer {
		return service.ErrNotAllowed
	}
	if err := h.userRepo.SetAssignedTrainer(ctx, userID, req.TrainerID); err != nil {
		return err
	}

	claims := middleware.Claims(c)
	h.auditor.Record(ctx, "admin", "assign_trainer", claims.UserID, "",
		strconv.FormatUint(uint64(userID), 10)+" -> "+strconv.FormatUint(uint64(req.TrainerID), 10))

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) RunBilling(c echo.Context) error {
	var req dto.RunBillingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	claims := middleware.Claims(c)

	created, err := h.billing.RunMonthlyBilling(c.Request().Context(), claims.UserID, req.Month)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.BillingRunResponse{Month: req.Month, InvoicesCreated: created})
}

func (h *AdminHandler) ListMonth(c echo.Context) error {
	invoices, err := h.billing.ListMonth(c.Request().Context(), c.Param("month"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoices)
}

func (h *AdminHandler) MarkPaid(c echo.Context) error {
	invoiceID, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}
	if err := h.billing.MarkPaid(c.Request().Context(), invoiceID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListAudit(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	entries, err := h.auditRepo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
