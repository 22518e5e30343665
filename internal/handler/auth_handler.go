package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/service"
)

// AuthHandler handles registration and token-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, frontendURL: frontendURL}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Register creates an inactive account and sends the verification email
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.authService.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Username and email are required", nil)
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "username", Message: "Username must be at most 150 characters"},
			})
		case errors.Is(err, domain.ErrPasswordTooShort):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "password", Message: "Password must be at least 8 characters"},
			})
		case errors.Is(err, domain.ErrUsernameTaken):
			return NewConflictError(c, "Username or email already in use")
		}
		log.Error().Err(err).Msg("Registration failed")
		return NewInternalError(c, "Registration failed")
	}

	return c.JSON(http.StatusCreated, user)
}

// VerifyEmail activates the account behind the token and redirects to the
// frontend with the outcome in the query string.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.Redirect(http.StatusFound, h.verifiedURL("missing"))
	}

	if err := h.authService.VerifyEmail(token); err != nil {
		if !errors.Is(err, domain.ErrTokenInvalid) {
			log.Error().Err(err).Msg("Email verification failed")
		}
		return c.Redirect(http.StatusFound, h.verifiedURL("invalid"))
	}

	return c.Redirect(http.StatusFound, h.verifiedURL("success"))
}

func (h *AuthHandler) verifiedURL(outcome string) string {
	return fmt.Sprintf("%s?verified=%s", h.frontendURL, outcome)
}

// Login exchanges credentials for an access/refresh token pair
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	pair, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return NewUnauthorizedError(c, "Invalid username or password")
		case errors.Is(err, domain.ErrAccountInactive):
			return NewForbiddenError(c, "Account is not verified yet")
		}
		log.Error().Err(err).Msg("Login failed")
		return NewInternalError(c, "Login failed")
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	pair, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return NewUnauthorizedError(c, "Invalid refresh token")
		}
		log.Error().Err(err).Msg("Token refresh failed")
		return NewInternalError(c, "Token refresh failed")
	}

	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the refresh token. An unknown or already revoked token is
// reported as a validation failure.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if err := h.authService.Logout(req.Refresh); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return NewValidationError(c, "Invalid refresh token", nil)
		}
		log.Error().Err(err).Msg("Logout failed")
		return NewInternalError(c, "Logout failed")
	}

	return c.NoContent(http.StatusNoContent)
}
