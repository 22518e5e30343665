package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind mirrors the category types and selects transactions by the
// sign of their amount: income is amount > 0, expense is amount < 0. A zero
// amount matches neither kind.
type TransactionKind string

const (
	KindIncome  TransactionKind = "INC"
	KindExpense TransactionKind = "EXP"
)

// Transaction is a single signed monetary movement. The sign of Amount is
// the sole determinant of income/expense classification.
type Transaction struct {
	ID            int64           `json:"id"`
	UserID        uuid.UUID       `json:"-"`
	WalletID      *int32          `json:"wallet,omitempty"`
	CategoryID    *int32          `json:"category,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
	CategoryName  *string         `json:"categoryName,omitempty"`
	CategoryIcon  *string         `json:"categoryIcon,omitempty"`
	CategoryColor *string         `json:"categoryColor,omitempty"`
	WalletName    *string         `json:"walletName,omitempty"`
	WalletColor   *string         `json:"walletColor,omitempty"`
}

// IsIncome reports whether the amount is strictly positive.
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the amount is strictly negative.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// TransactionFilter narrows a user's transaction set. All supplied criteria
// are ANDed; Query alone is an OR between description and category name.
// Nil/empty fields are absent criteria.
type TransactionFilter struct {
	Query      string
	CategoryID *int32
	WalletID   *int32
	Kind       *TransactionKind
	DateFrom   *time.Time
	DateTo     *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// Matches reports whether a transaction satisfies every supplied criterion.
// Date comparisons are inclusive and made on the calendar day.
func (f *TransactionFilter) Matches(t *Transaction) bool {
	if f == nil {
		return true
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		inDescription := strings.Contains(strings.ToLower(t.Description), q)
		inCategory := t.CategoryName != nil && strings.Contains(strings.ToLower(*t.CategoryName), q)
		if !inDescription && !inCategory {
			return false
		}
	}
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.WalletID != nil && (t.WalletID == nil || *t.WalletID != *f.WalletID) {
		return false
	}
	if f.Kind != nil {
		switch *f.Kind {
		case KindIncome:
			if !t.IsIncome() {
				return false
			}
		case KindExpense:
			if !t.IsExpense() {
				return false
			}
		}
	}
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.Date.After(*f.DateTo) {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// Summary is the aggregate over a filtered transaction set. Monetary values
// are exact decimals; the HTTP boundary renders them as decimal strings.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
	Count    int64
}

// UpdateTransactionData carries the fields of a transaction update.
type UpdateTransactionData struct {
	WalletID    *int32
	CategoryID  *int32
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// TransactionRepository defines the interface for transaction persistence
// operations. Every method is scoped to the owning user unconditionally.
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID uuid.UUID, id int64) (*Transaction, error)
	// Find returns matching transactions ordered by date descending, then id
	// descending.
	Find(userID uuid.UUID, filter *TransactionFilter) ([]*Transaction, error)
	Update(userID uuid.UUID, id int64, data *UpdateTransactionData) (*Transaction, error)
	Delete(userID uuid.UUID, id int64) error
}
