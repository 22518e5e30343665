package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/nexora/nexora-backend/internal/domain"
)

const exportDateLayout = "2006-01-02"

var exportHeader = []string{"date", "description", "category", "wallet", "amount"}

// ExportService renders a user's filtered transactions as CSV, Excel or PDF
type ExportService struct {
	transactionRepo domain.TransactionRepository
	calc            *CalculationService
}

// NewExportService creates a new ExportService
func NewExportService(transactionRepo domain.TransactionRepository, calc *CalculationService) *ExportService {
	return &ExportService{transactionRepo: transactionRepo, calc: calc}
}

func exportCategoryName(t *domain.Transaction) string {
	if t.CategoryName != nil {
		return *t.CategoryName
	}
	return ""
}

func exportWalletName(t *domain.Transaction) string {
	if t.WalletName != nil {
		return *t.WalletName
	}
	return ""
}

// ExportCSV writes the transactions as CSV, newest first, same ordering as
// the list endpoint.
func (s *ExportService) ExportCSV(userID uuid.UUID, filter *domain.TransactionFilter) ([]byte, error) {
	transactions, err := s.transactionRepo.Find(userID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, t := range transactions {
		record := []string{
			t.Date.Format(exportDateLayout),
			t.Description,
			exportCategoryName(t),
			exportWalletName(t),
			t.Amount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportExcel writes the transactions as an .xlsx workbook with a summary
// row below the data.
func (s *ExportService) ExportExcel(userID uuid.UUID, filter *domain.TransactionFilter) ([]byte, error) {
	transactions, err := s.transactionRepo.Find(userID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, t := range transactions {
		row := i + 2
		amount, _ := t.Amount.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.Date.Format(exportDateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.Description)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), exportCategoryName(t))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), exportWalletName(t))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), amount)
	}

	summary := s.calc.Summarize(transactions)
	totalRow := len(transactions) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Solde")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("A%d", totalRow), headerStyle)
	balance, _ := summary.Balance.Float64()
	f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), balance)

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "D", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportPDF writes a transaction report with a summary block, the expense
// breakdown by category and the transaction table.
func (s *ExportService) ExportPDF(userID uuid.UUID, filter *domain.TransactionFilter) ([]byte, error) {
	transactions, err := s.transactionRepo.Find(userID, filter)
	if err != nil {
		return nil, err
	}
	summary := s.calc.Summarize(transactions)
	byCategory := s.calc.ExpensesByCategory(transactions)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Rapport de transactions", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Rapport de transactions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Genere le %s", time.Now().UTC().Format("02/01/2006")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Resume")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Revenus : %s", summary.Income.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Depenses : %s", summary.Expenses.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Solde : %s", summary.Balance.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Transactions : %d", summary.Count))
	pdf.Ln(10)

	if len(byCategory) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, "Depenses par categorie")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		for _, ct := range byCategory {
			pdf.Cell(0, 6, fmt.Sprintf("%s : %s", ct.Name, ct.Total.StringFixed(2)))
			pdf.Ln(5)
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{24, 70, 34, 34, 28}
	for i, title := range []string{"Date", "Description", "Categorie", "Portefeuille", "Montant"} {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range transactions {
		cells := []string{
			t.Date.Format(exportDateLayout),
			t.Description,
			exportCategoryName(t),
			exportWalletName(t),
			t.Amount.StringFixed(2),
		}
		for i, v := range cells {
			align := "L"
			if i == 4 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
