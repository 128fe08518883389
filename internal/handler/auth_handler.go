package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/vezba/fitness-backend/internal/dto"
	"github.com/vezba/fitness-backend/internal/middleware"
	"github.com/vezba/fitness-backend/internal/service"
)

type AuthHandler struct {
	svc       service.AuthService
	jwtSecret []byte
}

func NewAuthHandler(svc service.AuthService, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{svc: svc, jwtSecret: jwtSecret}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/verify", h.Verify)
	auth.POST("/password/forgot", h.ForgotPassword)
	auth.POST("/password/reset", h.ResetPassword)

	me := e.Group("/api/v1/me", middleware.JWTAuth(h.jwtSecret))
	me.PUT("/trainer", h.SelectTrainer)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	challengeID, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ChallengeResponse{ChallengeID: challengeID.String()})
}

func (h *AuthHandler) Verify(c echo.Context) error {
	var req dto.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid challenge id")
	}

	token, user, err := h.svc.VerifyLogin(c.Request().Context(), challengeID, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64((24 * 60 * 60)),
		Role:        user.Role,
		UserID:      user.ID,
	})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	challengeID, err := h.svc.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	// A zero challenge id means the address is unknown; answer the same
	// way to avoid leaking which emails exist.
	resp := dto.ChallengeResponse{}
	if challengeID != uuid.Nil {
		resp.ChallengeID = challengeID.String()
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid challenge id")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_password is required")
	}

	if err := h.svc.ResetPassword(c.Request().Context(), challengeID, req.Code, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) SelectTrainer(c echo.Context) error {
	claims := middleware.Claims(c)
	var req dto.SelectTrainerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.SelectTrainer(c.Request().Context(), claims.UserID, req.TrainerID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
