package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/service"
	"github.com/nexora/nexora-backend/internal/testutil"
)

type budgetHandlerFixture struct {
	handler         *BudgetHandler
	transactionRepo *testutil.MockTransactionRepository
	categoryRepo    *testutil.MockCategoryRepository
	userID          uuid.UUID
	category        *domain.Category
}

func newBudgetHandlerFixture(t *testing.T) *budgetHandlerFixture {
	t.Helper()
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	walletRepo := testutil.NewMockWalletRepository()

	userID := uuid.New()
	category, err := categoryRepo.Create(&domain.Category{UserID: &userID, Name: "Loisirs", Type: domain.CategoryTypeExpense})
	if err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, categoryRepo, walletRepo, service.NewCalculationService())
	return &budgetHandlerFixture{
		handler:         NewBudgetHandler(budgetService),
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		userID:          userID,
		category:        category,
	}
}

func TestCreateBudget_NormalizesMonthInResponse(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture(t)

	reqBody := `{"category": ` + itoa(f.category.ID) + `, "month": "2025-06-17", "limit_amount": "300.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID)

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.Budget
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Month.Day() != 1 || response.Month.Month() != time.June {
		t.Errorf("Expected month normalized to 2025-06-01, got %s", response.Month)
	}
}

func TestCreateBudget_NegativeLimit(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture(t)

	reqBody := `{"category": ` + itoa(f.category.ID) + `, "month": "2025-06-01", "limit_amount": "-5"}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID)

	if err := f.handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetStatus_ReportsRatioAndLabel(t *testing.T) {
	e := echo.New()
	f := newBudgetHandlerFixture(t)

	month := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Create the budget through the handler to exercise the full path
	reqBody := `{"category": ` + itoa(f.category.ID) + `, "month": "2025-06-01", "limit_amount": "200.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, f.userID)
	if err := f.handler.CreateBudget(c); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("Budget creation failed: err=%v code=%d", err, rec.Code)
	}

	if _, err := f.transactionRepo.Create(&domain.Transaction{
		UserID:     f.userID,
		CategoryID: &f.category.ID,
		Amount:     decimal.RequireFromString("-170.00"),
		Date:       month.AddDate(0, 0, 12),
	}); err != nil {
		t.Fatalf("Failed to seed transaction: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/budgets/status?month=2025-06-15", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	setupAuthContext(c, f.userID)

	if err := f.handler.GetStatus(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var statuses []*domain.BudgetStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &statuses); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("Expected 1 status, got %d", len(statuses))
	}
	if !statuses[0].Ratio.Equal(decimal.RequireFromString("85")) {
		t.Errorf("Expected ratio 85, got %s", statuses[0].Ratio)
	}
	if statuses[0].Status != domain.BudgetStatusWarning {
		t.Errorf("Expected warning status, got %q", statuses[0].Status)
	}
	if statuses[0].WalletName != domain.AllWalletsName {
		t.Errorf("Expected wallet name %q, got %q", domain.AllWalletsName, statuses[0].WalletName)
	}
}

func itoa(id int32) string {
	return strconv.FormatInt(int64(id), 10)
}
