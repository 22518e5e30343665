package handler

import (
	"errors"
	"fmt"
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

const dateLayout = "2006-01-02"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	exportService      *service.ExportService
	importService      *service.ImportService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, exportService *service.ExportService, importService *service.ImportService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		exportService:      exportService,
		importService:      importService,
	}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	WalletID    *int32  `json:"wallet,omitempty"`
	CategoryID  *int32  `json:"category,omitempty"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Date        *string `json:"date,omitempty"`
}

// SummaryResponse represents the transaction summary in API responses
type SummaryResponse struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Balance  string `json:"balance"`
	Count    int64  `json:"count"`
}

// CreateTransaction creates a transaction from the request body. Without a
// wallet the user's default wallet is used when one exists.
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	transaction, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		WalletID:    req.WalletID,
		CategoryID:  req.CategoryID,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Wallet or category does not belong to you")
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions lists the user's transactions, newest first, filtered by
// the query parameters.
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	filter := parseTransactionFilter(c)

	transactions, err := h.transactionService.GetTransactions(userID, filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetTransaction retrieves a single transaction
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction replaces the mutable fields of a transaction
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != nil && *req.Date != "" {
		date, err = time.Parse(dateLayout, *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, service.UpdateTransactionInput{
		WalletID:    req.WalletID,
		CategoryID:  req.CategoryID,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Wallet or category does not belong to you")
		}
		log.Error().Err(err).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction deletes a transaction
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetSummary returns income, expenses, balance and count over the filtered
// set.
func (h *TransactionHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	filter := parseTransactionFilter(c)

	summary, err := h.transactionService.Summarize(userID, filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute summary")
		return NewInternalError(c, "Failed to compute summary")
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Income:   summary.Income.StringFixed(2),
		Expenses: summary.Expenses.StringFixed(2),
		Balance:  summary.Balance.StringFixed(2),
		Count:    summary.Count,
	})
}

// ImportCSV creates transactions from an uploaded CSV file
func (h *TransactionHandler) ImportCSV(c echo.Context) error {
	userID := middleware.GetUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Missing file upload", []ValidationError{
			{Field: "file", Message: "A CSV file is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded CSV")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	result, err := h.importService.ImportCSV(userID, src)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("CSV import failed")
		return NewInternalError(c, "CSV import failed")
	}

	return c.JSON(http.StatusCreated, result)
}

// Export streams the filtered transactions as csv, excel or pdf, selected by
// the format query parameter.
func (h *TransactionHandler) Export(c echo.Context) error {
	userID := middleware.GetUserID(c)
	filter := parseTransactionFilter(c)

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	var (
		data        []byte
		contentType string
		filename    string
		err         error
	)
	switch format {
	case "csv":
		data, err = h.exportService.ExportCSV(userID, filter)
		contentType = "text/csv"
		filename = "transactions.csv"
	case "excel":
		data, err = h.exportService.ExportExcel(userID, filter)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "transactions.xlsx"
	case "pdf":
		data, err = h.exportService.ExportPDF(userID, filter)
		contentType = "application/pdf"
		filename = "transactions.pdf"
	default:
		return NewValidationError(c, "Invalid format", []ValidationError{
			{Field: "format", Message: "Must be one of: csv, excel, pdf"},
		})
	}
	if err != nil {
		log.Error().Err(err).Str("format", format).Msg("Export failed")
		return NewInternalError(c, "Export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, contentType, data)
}

// parseTransactionFilter builds a filter from the query string. Malformed
// optional parameters are dropped rather than failing the request.
func parseTransactionFilter(c echo.Context) *domain.TransactionFilter {
	filter := &domain.TransactionFilter{Query: c.QueryParam("q")}

	if raw := c.QueryParam("category"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 32); err == nil {
			v := int32(id)
			filter.CategoryID = &v
		} else {
			log.Debug().Str("category", raw).Msg("Dropping malformed category filter")
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
	if raw := c.QueryParam("type"); raw == string(domain.KindIncome) || raw == string(domain.KindExpense) {
		kind := domain.TransactionKind(raw)
		filter.Kind = &kind
	} else if raw != "" {
		log.Debug().Str("type", raw).Msg("Dropping malformed type filter")
	}
	if raw := c.QueryParam("date_from"); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			filter.DateFrom = &t
		} else {
			log.Debug().Str("date_from", raw).Msg("Dropping malformed date_from filter")
		}
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			filter.DateTo = &t
		} else {
			log.Debug().Str("date_to", raw).Msg("Dropping malformed date_to filter")
		}
	}
	if raw := c.QueryParam("min_amount"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MinAmount = &d
		} else {
			log.Debug().Str("min_amount", raw).Msg("Dropping malformed min_amount filter")
		}
	}
	if raw := c.QueryParam("max_amount"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			filter.MaxAmount = &d
		} else {
			log.Debug().Str("max_amount", raw).Msg("Dropping malformed max_amount filter")
		}
	}

	return filter
}
