package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func createJWT(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return tokenString
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-7",
		"email": "jane@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func runJWTMiddleware(t *testing.T, req *http.Request, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	config := JWTConfig{
		Secret:    "test-secret",
		Logger:    zap.NewNop(),
		SkipPaths: []string{"/health"},
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTMiddleware(config)(handler)(c)
	assert.NoError(t, err)
	return rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards", nil)
	req.Header.Set("Authorization", "Bearer "+createJWT(t, validClaims(), "test-secret"))

	rec := runJWTMiddleware(t, req, func(c echo.Context) error {
		user, err := GetUserFromContext(c)
		assert.NoError(t, err)
		assert.Equal(t, "user-7", user.UserID)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "user-7", c.Get("user_id"))
		return okHandler(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noSubject := validClaims()
	delete(noSubject, "sub")

	tests := []struct {
		name       string
		authHeader string
		wantCode   string
	}{
		{"missing header", "", "MISSING_AUTH_HEADER"},
		{"not bearer", "Basic abc", "INVALID_AUTH_FORMAT"},
		{"wrong secret", "Bearer " + createJWT(t, validClaims(), "other-secret"), "INVALID_TOKEN"},
		{"expired", "Bearer " + createJWT(t, expired, "test-secret"), "INVALID_TOKEN"},
		{"no subject", "Bearer " + createJWT(t, noSubject, "test-secret"), "MISSING_SUBJECT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cards", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := runJWTMiddleware(t, req, func(c echo.Context) error {
				t.Error("handler must not be called")
				return nil
			})

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	rec := runJWTMiddleware(t, req, okHandler)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInternalTokenMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		given      string
		wantStatus int
	}{
		{"valid token", "s3cret", "s3cret", http.StatusOK},
		{"wrong token", "s3cret", "guess", http.StatusUnauthorized},
		{"missing token", "s3cret", "", http.StatusUnauthorized},
		{"unconfigured rejects all", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/renewals", nil)
			if tt.given != "" {
				req.Header.Set(InternalTokenHeader, tt.given)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := InternalTokenMiddleware(tt.configured, zap.NewNop())(okHandler)(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireAuth_WithoutUser(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	user, err := RequireAuth(c)

	assert.Nil(t, user)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
