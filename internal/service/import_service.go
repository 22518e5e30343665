package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
)

// importDateLayouts are tried in order when parsing the date column.
var importDateLayouts = []string{"2006-01-02", "02/01/2006"}

// ImportService loads transactions from an uploaded CSV file
type ImportService struct {
	transactionRepo domain.TransactionRepository
	walletRepo      domain.WalletRepository
	categoryRepo    domain.CategoryRepository
}

// NewImportService creates a new ImportService
func NewImportService(transactionRepo domain.TransactionRepository, walletRepo domain.WalletRepository, categoryRepo domain.CategoryRepository) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		categoryRepo:    categoryRepo,
	}
}

// RowResult records the fate of one CSV data row.
type RowResult struct {
	Line    int    `json:"line"`
	Created bool   `json:"created"`
	Reason  string `json:"reason,omitempty"`
}

// ImportResult summarizes an import run. Every data row appears in Rows; a
// row is either created or skipped, never aborts the run.
type ImportResult struct {
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
	Rows    []RowResult `json:"-"`
}

// ImportCSV reads a CSV stream with a header row and creates one transaction
// per parseable data row. Recognized columns are date, description, category,
// wallet and amount; only amount is mandatory. Rows naming an unknown wallet
// or with an unparseable amount or date are skipped individually.
func (s *ImportService) ImportCSV(userID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing CSV header", domain.ErrInvalidInput)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["amount"]; !ok {
		return nil, fmt.Errorf("%w: CSV header has no amount column", domain.ErrInvalidInput)
	}

	// Resolve the default wallet once; rows without a wallet column fall
	// back to it. A user without wallets imports unassigned transactions.
	var defaultWalletID *int32
	if wallet, err := s.walletRepo.GetDefault(userID); err == nil {
		defaultWalletID = &wallet.ID
	} else if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	// Wallet and category lookups are cached per name for the run.
	walletIDs := map[string]*int32{}
	categoryIDs := map[string]*int32{}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.skip(line, "malformed CSV row")
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		amount, err := decimal.NewFromString(field("amount"))
		if err != nil {
			result.skip(line, "unparseable amount")
			continue
		}

		date := time.Now().UTC().Truncate(24 * time.Hour)
		if raw := field("date"); raw != "" {
			parsed, err := parseImportDate(raw)
			if err != nil {
				result.skip(line, "unparseable date")
				continue
			}
			date = parsed
		}

		walletID := defaultWalletID
		if name := field("wallet"); name != "" {
			id, ok := s.resolveWallet(userID, walletIDs, name)
			if !ok {
				result.skip(line, fmt.Sprintf("unknown wallet %q", name))
				continue
			}
			walletID = id
		}

		categoryID := s.resolveCategory(userID, categoryIDs, field("category"), amount)

		_, err = s.transactionRepo.Create(&domain.Transaction{
			UserID:      userID,
			WalletID:    walletID,
			CategoryID:  categoryID,
			Amount:      amount,
			Description: field("description"),
			Date:        date,
		})
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("csv import row failed")
			result.skip(line, "could not save transaction")
			continue
		}

		result.Created++
		result.Rows = append(result.Rows, RowResult{Line: line, Created: true})
	}

	return result, nil
}

func (r *ImportResult) skip(line int, reason string) {
	r.Skipped++
	r.Rows = append(r.Rows, RowResult{Line: line, Reason: reason})
}

func parseImportDate(raw string) (time.Time, error) {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// resolveWallet maps a wallet name to its id, caching misses as nil entries.
func (s *ImportService) resolveWallet(userID uuid.UUID, cache map[string]*int32, name string) (*int32, bool) {
	key := strings.ToLower(name)
	if id, seen := cache[key]; seen {
		return id, id != nil
	}
	for _, w := range s.walletsByUser(userID) {
		if strings.EqualFold(w.Name, name) {
			id := w.ID
			cache[key] = &id
			return &id, true
		}
	}
	cache[key] = nil
	return nil, false
}

func (s *ImportService) walletsByUser(userID uuid.UUID) []*domain.Wallet {
	wallets, err := s.walletRepo.GetAllByUser(userID)
	if err != nil {
		return nil
	}
	return wallets
}

// resolveCategory maps a category name to a visible category id, creating an
// owned category on first sight of an unknown name. The new category's type
// follows the sign of the row's amount.
func (s *ImportService) resolveCategory(userID uuid.UUID, cache map[string]*int32, name string, amount decimal.Decimal) *int32 {
	if name == "" {
		return nil
	}
	key := strings.ToLower(name)
	if id, seen := cache[key]; seen {
		return id
	}

	if cat, err := s.categoryRepo.FindVisibleByName(userID, name); err == nil {
		id := cat.ID
		cache[key] = &id
		return &id
	}

	catType := domain.CategoryTypeExpense
	if amount.IsPositive() {
		catType = domain.CategoryTypeIncome
	}
	uid := userID
	created, err := s.categoryRepo.Create(&domain.Category{
		UserID: &uid,
		Name:   name,
		Type:   catType,
		Icon:   domain.DefaultCategoryIcon,
		Color:  domain.DefaultCategoryColor,
	})
	if err != nil {
		log.Warn().Err(err).Str("category", name).Msg("csv import category creation failed")
		cache[key] = nil
		return nil
	}
	id := created.ID
	cache[key] = &id
	return &id
}
