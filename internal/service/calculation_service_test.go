package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
)

func tx(amount string, category *string) *domain.Transaction {
	return &domain.Transaction{
		Amount:       decimal.RequireFromString(amount),
		CategoryName: category,
	}
}

func strPtr(s string) *string { return &s }

func TestSummarize_Empty(t *testing.T) {
	calc := NewCalculationService()

	summary := calc.Summarize(nil)

	if !summary.Income.IsZero() || !summary.Expenses.IsZero() || !summary.Balance.IsZero() {
		t.Errorf("Expected all-zero summary, got income=%s expenses=%s balance=%s",
			summary.Income, summary.Expenses, summary.Balance)
	}
	if summary.Count != 0 {
		t.Errorf("Expected count 0, got %d", summary.Count)
	}
}

func TestSummarize_MixedSigns(t *testing.T) {
	calc := NewCalculationService()

	transactions := []*domain.Transaction{
		tx("1500.00", nil),
		tx("250.50", nil),
		tx("-400.25", nil),
		tx("-99.75", nil),
	}

	summary := calc.Summarize(transactions)

	if !summary.Income.Equal(decimal.RequireFromString("1750.50")) {
		t.Errorf("Expected income 1750.50, got %s", summary.Income)
	}
	if !summary.Expenses.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("Expected expenses 500.00, got %s", summary.Expenses)
	}
	if !summary.Balance.Equal(decimal.RequireFromString("1250.50")) {
		t.Errorf("Expected balance 1250.50, got %s", summary.Balance)
	}
	if summary.Count != 4 {
		t.Errorf("Expected count 4, got %d", summary.Count)
	}
}

func TestSummarize_ZeroAmountCountedButNotClassified(t *testing.T) {
	calc := NewCalculationService()

	transactions := []*domain.Transaction{
		tx("0", nil),
		tx("100", nil),
	}

	summary := calc.Summarize(transactions)

	if !summary.Income.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected income 100, got %s", summary.Income)
	}
	if !summary.Expenses.IsZero() {
		t.Errorf("Expected expenses 0, got %s", summary.Expenses)
	}
	if summary.Count != 2 {
		t.Errorf("Expected count 2, got %d", summary.Count)
	}
}

func TestExpensesByCategory_SortsAndGroups(t *testing.T) {
	calc := NewCalculationService()

	transactions := []*domain.Transaction{
		tx("-50", strPtr("Transport")),
		tx("-200", strPtr("Nourriture")),
		tx("-30", strPtr("Transport")),
		tx("-10", nil),
		tx("500", strPtr("Salaire")), // income ignored
	}

	totals := calc.ExpensesByCategory(transactions)

	if len(totals) != 3 {
		t.Fatalf("Expected 3 category totals, got %d", len(totals))
	}
	if totals[0].Name != "Nourriture" || !totals[0].Total.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected Nourriture 200 first, got %s %s", totals[0].Name, totals[0].Total)
	}
	if totals[1].Name != "Transport" || !totals[1].Total.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected Transport 80 second, got %s %s", totals[1].Name, totals[1].Total)
	}
	if totals[2].Name != UncategorizedLabel || !totals[2].Total.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected %s 10 last, got %s %s", UncategorizedLabel, totals[2].Name, totals[2].Total)
	}
}
