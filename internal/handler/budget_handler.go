package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/middleware"
	"github.com/nexora/nexora-backend/internal/service"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update budget request body. Month
// accepts any date of the target month.
type BudgetRequest struct {
	CategoryID  int32  `json:"category"`
	WalletID    *int32 `json:"wallet,omitempty"`
	Month       string `json:"month"`
	LimitAmount string `json:"limit_amount"`
}

func (h *BudgetHandler) bindBudget(c echo.Context) (*service.BudgetInput, error) {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewValidationError(c, "Invalid request body", nil)
	}

	if req.CategoryID <= 0 {
		return nil, NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category ID is required"},
		})
	}

	month, err := time.Parse(dateLayout, req.Month)
	if err != nil {
		return nil, NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	limit, err := decimal.NewFromString(req.LimitAmount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid limit amount", []ValidationError{
			{Field: "limit_amount", Message: "Must be a valid decimal number"},
		})
	}

	return &service.BudgetInput{
		CategoryID:  req.CategoryID,
		WalletID:    req.WalletID,
		Month:       month,
		LimitAmount: limit,
	}, nil
}

func budgetErrorResponse(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "Wallet or category does not belong to you")
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "limit_amount", Message: "Must not be negative"},
		})
	case errors.Is(err, domain.ErrAlreadyExists):
		return NewConflictError(c, "A budget for this category, wallet and month already exists")
	}
	log.Error().Err(err).Msg(action)
	return NewInternalError(c, action)
}

// CreateBudget creates a monthly budget
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	input, errResp := h.bindBudget(c)
	if errResp != nil {
		return errResp
	}

	budget, err := h.budgetService.CreateBudget(userID, *input)
	if err != nil {
		return budgetErrorResponse(c, err, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, budget)
}

// GetBudgets lists the user's budgets, optionally filtered by month and
// wallet.
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)

	filter := &domain.BudgetFilter{}
	if raw := c.QueryParam("month"); raw != "" {
		if month, err := time.Parse(dateLayout, raw); err == nil {
			filter.Month = &month
		} else {
			log.Debug().Str("month", raw).Msg("Dropping malformed month filter")
		}
	}
	if raw := c.QueryParam("wallet"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 32); err == nil {
			v := int32(id)
			filter.WalletID = &v
		} else {
			log.Debug().Str("wallet", raw).Msg("Dropping malformed wallet filter")
		}
	}

	budgets, err := h.budgetService.GetBudgets(userID, filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	return c.JSON(http.StatusOK, budgets)
}

// GetBudget retrieves a single budget
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetBudgetByID(userID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Msg("Failed to get budget")
		return NewInternalError(c, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, budget)
}

// UpdateBudget updates a budget
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	input, errResp := h.bindBudget(c)
	if errResp != nil {
		return errResp
	}

	budget, err := h.budgetService.UpdateBudget(userID, int32(id), *input)
	if err != nil {
		return budgetErrorResponse(c, err, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget deletes a budget
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetStatus evaluates the budgets of a month against their spending. The
// month defaults to the current one.
func (h *BudgetHandler) GetStatus(c echo.Context) error {
	userID := middleware.GetUserID(c)

	month := time.Now().UTC()
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return NewValidationError(c, "Invalid month", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		month = parsed
	}

	statuses, err := h.budgetService.Status(userID, month)
	if err != nil {
		log.Error().Err(err).Msg("Failed to evaluate budget status")
		return NewInternalError(c, "Failed to evaluate budget status")
	}

	return c.JSON(http.StatusOK, statuses)
}
