package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/middleware"
	"github.com/nexora/nexora-backend/internal/service"
	"github.com/nexora/nexora-backend/internal/testutil"
)

// setupAuthContext injects an authenticated user into the echo context the
// same way the auth middleware does.
func setupAuthContext(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newTransactionHandlerFixture() (*TransactionHandler, *testutil.MockTransactionRepository, *testutil.MockWalletRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	walletRepo := testutil.NewMockWalletRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	calc := service.NewCalculationService()

	transactionService := service.NewTransactionService(transactionRepo, walletRepo, categoryRepo, calc)
	exportService := service.NewExportService(transactionRepo, calc)
	importService := service.NewImportService(transactionRepo, walletRepo, categoryRepo)
	return NewTransactionHandler(transactionService, exportService, importService), transactionRepo, walletRepo
}

func TestCreateTransaction_Success(t *testing.T) {
	e := echo.New()
	handler, _, walletRepo := newTransactionHandlerFixture()
	userID := uuid.New()

	if _, err := walletRepo.Create(&domain.Wallet{UserID: userID, Name: "Principal", IsDefault: true}); err != nil {
		t.Fatalf("Failed to seed wallet: %v", err)
	}

	reqBody := `{"amount": "-150.00", "description": "Courses", "date": "2025-03-10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Description != "Courses" {
		t.Errorf("Expected description 'Courses', got %s", response.Description)
	}
	if !response.Amount.Equal(decimal.RequireFromString("-150.00")) {
		t.Errorf("Expected amount -150.00, got %s", response.Amount)
	}
	if response.WalletID == nil {
		t.Error("Expected the default wallet to be assigned")
	}
}

func TestCreateTransaction_InvalidAmount(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandlerFixture()

	reqBody := `{"amount": "abc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactions_MalformedFiltersAreDropped(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, _ := newTransactionHandlerFixture()
	userID := uuid.New()

	for _, amount := range []string{"100", "-40"} {
		if _, err := transactionRepo.Create(&domain.Transaction{
			UserID: userID,
			Amount: decimal.RequireFromString(amount),
			Date:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	// category, date_from and type are all malformed and must be ignored
	req := httptest.NewRequest(http.MethodGet, "/api/transactions?category=abc&date_from=notadate&type=BOTH", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []*domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected the malformed filters to be dropped (2 results), got %d", len(response))
	}
}

func TestGetTransactions_KindFilter(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, _ := newTransactionHandlerFixture()
	userID := uuid.New()

	for _, amount := range []string{"100", "-40", "0"} {
		if _, err := transactionRepo.Create(&domain.Transaction{
			UserID: userID,
			Amount: decimal.RequireFromString(amount),
			Date:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?type=INC", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []*domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	// The zero-amount transaction matches neither kind
	if len(response) != 1 {
		t.Errorf("Expected 1 income transaction, got %d", len(response))
	}
}

func TestGetSummary_RendersDecimalStrings(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, _ := newTransactionHandlerFixture()
	userID := uuid.New()

	for _, amount := range []string{"1000.00", "-250.50"} {
		if _, err := transactionRepo.Create(&domain.Transaction{
			UserID: userID,
			Amount: decimal.RequireFromString(amount),
			Date:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetSummary(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Income != "1000.00" || response.Expenses != "250.50" || response.Balance != "749.50" {
		t.Errorf("Unexpected summary %+v", response)
	}
	if response.Count != 2 {
		t.Errorf("Expected count 2, got %d", response.Count)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/export?format=docx", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.Export(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestExport_DefaultsToCSV(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.Export(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv content type, got %s", ct)
	}
}
