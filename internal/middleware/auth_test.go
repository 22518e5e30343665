package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured uuid.UUID
	handler := NewAuthMiddleware(testSecret).Authenticate()(func(c echo.Context) error {
		captured = GetUserID(c)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, captured, err
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, userID.String(), time.Now().Add(time.Hour))

	_, captured, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if captured != userID {
		t.Errorf("Expected user ID %s in context, got %s", userID, captured)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	_, _, err := runAuth(t, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %v", err)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	_, _, err := runAuth(t, "Token abc")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %v", err)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, uuid.New().String(), time.Now().Add(-time.Hour))

	_, _, err := runAuth(t, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for expired token, got %v", err)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", uuid.New().String(), time.Now().Add(time.Hour))

	_, _, err := runAuth(t, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong signature, got %v", err)
	}
}

func TestAuthenticate_NonUUIDSubject(t *testing.T) {
	token := signToken(t, testSecret, "not-a-uuid", time.Now().Add(time.Hour))

	_, _, err := runAuth(t, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad subject, got %v", err)
	}
}
