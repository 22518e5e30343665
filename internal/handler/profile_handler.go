package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/middleware"
	"github.com/nexora/nexora-backend/internal/service"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
	avatarService  *service.AvatarService
	resetService   *service.ResetService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService, avatarService *service.AvatarService, resetService *service.ResetService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		avatarService:  avatarService,
		resetService:   resetService,
	}
}

// UpdateProfileRequest represents the partial profile update body. Absent
// fields stay unchanged.
type UpdateProfileRequest struct {
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Currency   *string `json:"currency,omitempty"`
	Timezone   *string `json:"timezone,omitempty"`
	DateFormat *string `json:"date_format,omitempty"`
}

// ResetRequest carries the confirmation phrase for a data reset
type ResetRequest struct {
	Confirm string `json:"confirm"`
}

// GetProfile returns the user's account fields and preferences
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrPreferenceNotFound) {
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a partial update to the profile and preferences
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.UpdateProfile(userID, service.ProfileUpdateInput{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Currency:   req.Currency,
		Timezone:   req.Timezone,
		DateFormat: req.DateFormat,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrPreferenceNotFound) {
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, profile)
}

// UploadAvatar stores a new avatar image and returns its URL
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID := middleware.GetUserID(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return NewValidationError(c, "Missing file upload", []ValidationError{
			{Field: "avatar", Message: "An image file is required"},
		})
	}

	url, err := h.avatarService.UploadAvatar(c.Request().Context(), userID, file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Avatar upload failed")
		return NewInternalError(c, "Avatar upload failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"avatar_url": url})
}

// ResetData wipes the user's financial data after an explicit confirmation
func (h *ProfileHandler) ResetData(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if err := h.resetService.Reset(userID, req.Confirm); err != nil {
		if errors.Is(err, domain.ErrConfirmationRequired) {
			return NewValidationError(c, "Confirmation phrase does not match", []ValidationError{
				{Field: "confirm", Message: `Type "RESET" to confirm`},
			})
		}
		log.Error().Err(err).Msg("Data reset failed")
		return NewInternalError(c, "Data reset failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"detail": "All data has been reset"})
}
