package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/service"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, userID uint, role models.Role, ttl time.Duration) string {
	t.Helper()
	claims := service.TokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func runAuthed(t *testing.T, header string) (error, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return JWTAuth(testSecret)(next)(c), c
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token := signedToken(t, 42, models.RoleTrainer, time.Hour)

	err, c := runAuthed(t, "Bearer "+token)
	require.NoError(t, err)

	claims := Claims(c)
	require.NotNil(t, claims)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleTrainer, claims.Role)
}

func TestJWTAuth_Rejections(t *testing.T) {
	expired := signedToken(t, 42, models.RoleClient, -time.Hour)

	// Signed with the right secret but the wrong algorithm.
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, service.TokenClaims{
		UserID: 42,
		Role:   models.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing header":  "",
		"not bearer":      "Basic abc",
		"garbage token":   "Bearer not.a.token",
		"expired token":   "Bearer " + expired,
		"wrong algorithm": "Bearer " + hs512,
	} {
		t.Run(name, func(t *testing.T) {
			err, _ := runAuthed(t, header)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	newCtx := func(role models.Role) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("claims", &service.TokenClaims{UserID: 1, Role: role})
		return c
	}

	assert.NoError(t, RequireRole(models.RoleTrainer)(next)(newCtx(models.RoleTrainer)))

	err := RequireRole(models.RoleTrainer)(next)(newCtx(models.RoleClient))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	// No claims at all.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	err = RequireRole(models.RoleAdmin)(next)(c)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}
