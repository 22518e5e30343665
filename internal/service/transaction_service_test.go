package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/testutil"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockWalletRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	walletRepo := testutil.NewMockWalletRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewTransactionService(transactionRepo, walletRepo, categoryRepo, NewCalculationService())
	return svc, transactionRepo, walletRepo, categoryRepo
}

func TestCreateTransaction_FallsBackToDefaultWallet(t *testing.T) {
	svc, _, walletRepo, _ := newTransactionService()
	userID := uuid.New()

	wallet, err := walletRepo.Create(&domain.Wallet{UserID: userID, Name: "Principal", IsDefault: true})
	if err != nil {
		t.Fatalf("Failed to seed wallet: %v", err)
	}

	created, err := svc.CreateTransaction(userID, CreateTransactionInput{
		Amount:      decimal.NewFromInt(-50),
		Description: "Courses",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.WalletID == nil || *created.WalletID != wallet.ID {
		t.Errorf("Expected default wallet %d, got %v", wallet.ID, created.WalletID)
	}
}

func TestCreateTransaction_NoWalletsLeavesWalletNil(t *testing.T) {
	svc, _, _, _ := newTransactionService()
	userID := uuid.New()

	created, err := svc.CreateTransaction(userID, CreateTransactionInput{
		Amount: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.WalletID != nil {
		t.Errorf("Expected nil wallet, got %v", *created.WalletID)
	}
}

func TestCreateTransaction_RejectsForeignWallet(t *testing.T) {
	svc, _, walletRepo, _ := newTransactionService()
	owner := uuid.New()
	intruder := uuid.New()

	wallet, err := walletRepo.Create(&domain.Wallet{UserID: owner, Name: "Principal"})
	if err != nil {
		t.Fatalf("Failed to seed wallet: %v", err)
	}

	_, err = svc.CreateTransaction(intruder, CreateTransactionInput{
		WalletID: &wallet.ID,
		Amount:   decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestCreateTransaction_RejectsInvisibleCategory(t *testing.T) {
	svc, _, _, categoryRepo := newTransactionService()
	owner := uuid.New()
	intruder := uuid.New()

	category, err := categoryRepo.Create(&domain.Category{UserID: &owner, Name: "Perso", Type: domain.CategoryTypeExpense})
	if err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	_, err = svc.CreateTransaction(intruder, CreateTransactionInput{
		CategoryID: &category.ID,
		Amount:     decimal.NewFromInt(-5),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestCreateTransaction_AcceptsGlobalCategory(t *testing.T) {
	svc, _, _, categoryRepo := newTransactionService()
	userID := uuid.New()

	category, err := categoryRepo.Create(&domain.Category{Name: "Salaire", Type: domain.CategoryTypeIncome})
	if err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	created, err := svc.CreateTransaction(userID, CreateTransactionInput{
		CategoryID: &category.ID,
		Amount:     decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.CategoryID == nil || *created.CategoryID != category.ID {
		t.Errorf("Expected category %d, got %v", category.ID, created.CategoryID)
	}
}

func TestSummarize_AppliesFilter(t *testing.T) {
	svc, transactionRepo, _, _ := newTransactionService()
	userID := uuid.New()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, amount := range []string{"1000", "-300", "-200"} {
		if _, err := transactionRepo.Create(&domain.Transaction{
			UserID: userID,
			Amount: decimal.RequireFromString(amount),
			Date:   date,
		}); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	kind := domain.KindExpense
	summary, err := svc.Summarize(userID, &domain.TransactionFilter{Kind: &kind})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary.Expenses.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected expenses 500, got %s", summary.Expenses)
	}
	if summary.Count != 2 {
		t.Errorf("Expected count 2, got %d", summary.Count)
	}
}

func TestGetTransactions_NewestFirst(t *testing.T) {
	svc, transactionRepo, _, _ := newTransactionService()
	userID := uuid.New()

	older := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{older, newer, older} {
		if _, err := transactionRepo.Create(&domain.Transaction{UserID: userID, Amount: decimal.NewFromInt(1), Date: d}); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	transactions, err := svc.GetTransactions(userID, &domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(transactions))
	}
	if !transactions[0].Date.Equal(newer) {
		t.Errorf("Expected newest first, got %s", transactions[0].Date)
	}
	// Same date resolves by id descending
	if transactions[1].ID != 3 || transactions[2].ID != 1 {
		t.Errorf("Expected ids [3 1] for the tied dates, got [%d %d]", transactions[1].ID, transactions[2].ID)
	}
}
