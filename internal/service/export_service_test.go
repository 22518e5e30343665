package service

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/testutil"
)

func newExportFixture(t *testing.T) (*ExportService, uuid.UUID) {
	t.Helper()
	transactionRepo := testutil.NewMockTransactionRepository()
	userID := uuid.New()

	category := "Nourriture"
	wallet := "Principal"
	rows := []struct {
		amount string
		desc   string
		day    int
	}{
		{"2000.00", "Salaire", 1},
		{"-150.75", "Courses", 5},
	}
	for _, r := range rows {
		if _, err := transactionRepo.Create(&domain.Transaction{
			UserID:       userID,
			Amount:       decimal.RequireFromString(r.amount),
			Description:  r.desc,
			Date:         time.Date(2025, 4, r.day, 0, 0, 0, 0, time.UTC),
			CategoryName: &category,
			WalletName:   &wallet,
		}); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	return NewExportService(transactionRepo, NewCalculationService()), userID
}

func TestExportCSV_HeaderAndRows(t *testing.T) {
	svc, userID := newExportFixture(t)

	data, err := svc.ExportCSV(userID, &domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d records", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "date,description,category,wallet,amount" {
		t.Errorf("Unexpected header %q", header)
	}

	// Newest first, like the list endpoint
	if records[1][1] != "Courses" || records[1][4] != "-150.75" {
		t.Errorf("Unexpected first data row %v", records[1])
	}
	if records[2][0] != "2025-04-01" || records[2][2] != "Nourriture" {
		t.Errorf("Unexpected second data row %v", records[2])
	}
}

func TestExportCSV_FilterApplies(t *testing.T) {
	svc, userID := newExportFixture(t)

	kind := domain.KindExpense
	data, err := svc.ExportCSV(userID, &domain.TransactionFilter{Kind: &kind})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header plus 1 expense row, got %d records", len(records))
	}
	if records[1][1] != "Courses" {
		t.Errorf("Expected the expense row, got %v", records[1])
	}
}

func TestExportExcel_ProducesWorkbook(t *testing.T) {
	svc, userID := newExportFixture(t)

	data, err := svc.ExportExcel(userID, &domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// xlsx files are zip archives
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Error("Expected xlsx (zip) magic bytes")
	}
}

func TestExportPDF_ProducesDocument(t *testing.T) {
	svc, userID := newExportFixture(t)

	data, err := svc.ExportPDF(userID, &domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("Expected PDF magic bytes")
	}
}
