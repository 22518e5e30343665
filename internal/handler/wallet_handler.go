package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/middleware"
	"github.com/nexora/nexora-backend/internal/service"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// WalletRequest represents the create/update wallet request body
type WalletRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func walletIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// CreateWallet creates a wallet. The user's first wallet becomes the
// default.
func (h *WalletHandler) CreateWallet(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req WalletRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	wallet, err := h.walletService.CreateWallet(userID, req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be at most 100 characters"},
			})
		case errors.Is(err, domain.ErrAlreadyExists):
			return NewConflictError(c, "A wallet with this name already exists")
		}
		log.Error().Err(err).Msg("Failed to create wallet")
		return NewInternalError(c, "Failed to create wallet")
	}

	return c.JSON(http.StatusCreated, wallet)
}

// GetWallets lists the user's wallets, default first
func (h *WalletHandler) GetWallets(c echo.Context) error {
	userID := middleware.GetUserID(c)

	wallets, err := h.walletService.GetWallets(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list wallets")
		return NewInternalError(c, "Failed to list wallets")
	}

	return c.JSON(http.StatusOK, wallets)
}

// GetWallet retrieves a single wallet
func (h *WalletHandler) GetWallet(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := walletIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	wallet, err := h.walletService.GetWalletByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return NewNotFoundError(c, "Wallet not found")
		}
		log.Error().Err(err).Msg("Failed to get wallet")
		return NewInternalError(c, "Failed to get wallet")
	}

	return c.JSON(http.StatusOK, wallet)
}

// UpdateWallet updates a wallet's name and color
func (h *WalletHandler) UpdateWallet(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := walletIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	var req WalletRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	wallet, err := h.walletService.UpdateWallet(userID, id, req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWalletNotFound):
			return NewNotFoundError(c, "Wallet not found")
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be at most 100 characters"},
			})
		case errors.Is(err, domain.ErrAlreadyExists):
			return NewConflictError(c, "A wallet with this name already exists")
		}
		log.Error().Err(err).Msg("Failed to update wallet")
		return NewInternalError(c, "Failed to update wallet")
	}

	return c.JSON(http.StatusOK, wallet)
}

// DeleteWallet deletes a wallet
func (h *WalletHandler) DeleteWallet(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := walletIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	if err := h.walletService.DeleteWallet(userID, id); err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return NewNotFoundError(c, "Wallet not found")
		}
		log.Error().Err(err).Msg("Failed to delete wallet")
		return NewInternalError(c, "Failed to delete wallet")
	}

	return c.NoContent(http.StatusNoContent)
}

// MakeDefault marks the wallet as the default one
func (h *WalletHandler) MakeDefault(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := walletIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid wallet ID", nil)
	}

	wallet, err := h.walletService.MakeDefault(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return NewNotFoundError(c, "Wallet not found")
		}
		log.Error().Err(err).Msg("Failed to set default wallet")
		return NewInternalError(c, "Failed to set default wallet")
	}

	return c.JSON(http.StatusOK, wallet)
}
