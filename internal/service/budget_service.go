package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/util"
)

var oneHundred = decimal.NewFromInt(100)

// BudgetService handles budget CRUD and the per-month status evaluation
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	walletRepo      domain.WalletRepository
	calc            *CalculationService
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, walletRepo domain.WalletRepository, calc *CalculationService) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		walletRepo:      walletRepo,
		calc:            calc,
	}
}

// BudgetInput holds the input for creating or updating a budget
type BudgetInput struct {
	CategoryID  int32
	WalletID    *int32
	Month       time.Time
	LimitAmount decimal.Decimal
}

func (s *BudgetService) validateInput(userID uuid.UUID, input BudgetInput) error {
	if input.LimitAmount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if _, err := s.categoryRepo.GetVisibleByID(userID, input.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if input.WalletID != nil {
		if _, err := s.walletRepo.GetByID(userID, *input.WalletID); err != nil {
			if errors.Is(err, domain.ErrWalletNotFound) {
				return domain.ErrForbidden
			}
			return err
		}
	}
	return nil
}

// CreateBudget creates a budget. Whatever day the caller supplied, the month
// is stored as the first day of that month.
func (s *BudgetService) CreateBudget(userID uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	if err := s.validateInput(userID, input); err != nil {
		return nil, err
	}

	return s.budgetRepo.Create(&domain.Budget{
		UserID:      userID,
		WalletID:    input.WalletID,
		CategoryID:  input.CategoryID,
		Month:       util.FirstOfMonth(input.Month),
		LimitAmount: input.LimitAmount,
	})
}

// UpdateBudget updates a budget, normalizing the month exactly as creation
// does.
func (s *BudgetService) UpdateBudget(userID uuid.UUID, id int32, input BudgetInput) (*domain.Budget, error) {
	if err := s.validateInput(userID, input); err != nil {
		return nil, err
	}

	return s.budgetRepo.Update(userID, id, input.WalletID, input.CategoryID,
		util.FirstOfMonth(input.Month), input.LimitAmount)
}

// GetBudgets lists the user's budgets, optionally restricted to a month
// (any date within it) and/or a wallet.
func (s *BudgetService) GetBudgets(userID uuid.UUID, filter *domain.BudgetFilter) ([]*domain.Budget, error) {
	if filter != nil && filter.Month != nil {
		normalized := util.FirstOfMonth(*filter.Month)
		filter.Month = &normalized
	}
	return s.budgetRepo.Find(userID, filter)
}

// GetBudgetByID retrieves a budget by id
func (s *BudgetService) GetBudgetByID(userID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(userID, id)
}

// DeleteBudget deletes a budget
func (s *BudgetService) DeleteBudget(userID uuid.UUID, id int32) error {
	return s.budgetRepo.Delete(userID, id)
}

// Status evaluates every budget of the month the given date falls in. For
// each budget the matching transactions are the user's transactions in the
// budget's category within the month, restricted to the budget's wallet when
// it has one. Only expenses consume budget; income under the same category
// is ignored.
func (s *BudgetService) Status(userID uuid.UUID, month time.Time) ([]*domain.BudgetStatus, error) {
	first, last := util.MonthBounds(month)

	budgets, err := s.budgetRepo.FindByMonth(userID, first)
	if err != nil {
		return nil, err
	}

	statuses := make([]*domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		categoryID := b.CategoryID
		filter := &domain.TransactionFilter{
			CategoryID: &categoryID,
			WalletID:   b.WalletID,
			DateFrom:   &first,
			DateTo:     &last,
		}
		transactions, err := s.transactionRepo.Find(userID, filter)
		if err != nil {
			return nil, err
		}

		spent := s.calc.Summarize(transactions).Expenses
		// The label is decided on the exact ratio; rounding applies only
		// to the reported value. 159.99 of 200.00 is 79.995%, which is
		// still "ok" even though it displays as 80.00.
		ratio := decimal.Zero
		if !b.LimitAmount.IsZero() {
			ratio = spent.Div(b.LimitAmount).Mul(oneHundred)
		}

		walletName := domain.AllWalletsName
		if b.WalletName != nil {
			walletName = *b.WalletName
		}

		statuses = append(statuses, &domain.BudgetStatus{
			ID:           b.ID,
			CategoryName: b.CategoryName,
			WalletName:   walletName,
			LimitAmount:  b.LimitAmount,
			SpentAmount:  spent,
			Ratio:        ratio.Round(2),
			Status:       statusLabel(ratio),
		})
	}
	return statuses, nil
}

// statusLabel maps a spent-to-limit percentage to its label.
func statusLabel(ratio decimal.Decimal) string {
	switch {
	case ratio.GreaterThanOrEqual(oneHundred):
		return domain.BudgetStatusDanger
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return domain.BudgetStatusWarning
	default:
		return domain.BudgetStatusOK
	}
}
