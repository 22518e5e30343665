package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllWalletsName is the wallet-name sentinel for budgets that apply across
// every wallet of the user.
const AllWalletsName = "Tous"

// Budget status labels, derived from the spent-to-limit ratio.
const (
	BudgetStatusOK      = "ok"
	BudgetStatusWarning = "warning"
	BudgetStatusDanger  = "danger"
)

// Budget is a per-month, per-category spending limit. A nil WalletID means
// the budget applies across all of the user's wallets. Month is always the
// first day of the month.
type Budget struct {
	ID           int32           `json:"id"`
	UserID       uuid.UUID       `json:"-"`
	WalletID     *int32          `json:"wallet,omitempty"`
	CategoryID   int32           `json:"category"`
	Month        time.Time       `json:"month"`
	LimitAmount  decimal.Decimal `json:"limitAmount"`
	CategoryName string          `json:"categoryName,omitempty"`
	WalletName   *string         `json:"walletName,omitempty"`
}

// BudgetFilter narrows a user's budget list.
type BudgetFilter struct {
	Month    *time.Time
	WalletID *int32
}

// BudgetStatus is the evaluator output for one budget in its month.
type BudgetStatus struct {
	ID           int32           `json:"id"`
	CategoryName string          `json:"category_name"`
	WalletName   string          `json:"wallet_name"`
	LimitAmount  decimal.Decimal `json:"limit_amount"`
	SpentAmount  decimal.Decimal `json:"spent_amount"`
	Ratio        decimal.Decimal `json:"ratio"`
	Status       string          `json:"status"`
}

// BudgetRepository defines the interface for budget persistence operations
type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(userID uuid.UUID, id int32) (*Budget, error)
	// Find returns budgets ordered by month descending, then category name.
	Find(userID uuid.UUID, filter *BudgetFilter) ([]*Budget, error)
	// FindByMonth returns the budgets for a (normalized) month ordered by id
	// ascending, for deterministic status output.
	FindByMonth(userID uuid.UUID, month time.Time) ([]*Budget, error)
	Update(userID uuid.UUID, id int32, walletID *int32, categoryID int32, month time.Time, limit decimal.Decimal) (*Budget, error)
	Delete(userID uuid.UUID, id int32) error
}
