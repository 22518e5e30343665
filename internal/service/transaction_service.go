package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	walletRepo      domain.WalletRepository
	categoryRepo    domain.CategoryRepository
	calc            *CalculationService
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, walletRepo domain.WalletRepository, categoryRepo domain.CategoryRepository, calc *CalculationService) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		categoryRepo:    categoryRepo,
		calc:            calc,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	WalletID    *int32
	CategoryID  *int32
	Amount      decimal.Decimal
	Description string
	Date        *time.Time
}

// CreateTransaction creates a transaction. A wallet the user does not own is
// rejected outright; an absent wallet falls back to the user's default
// wallet when one exists.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	walletID := input.WalletID
	if walletID != nil {
		if _, err := s.walletRepo.GetByID(userID, *walletID); err != nil {
			if errors.Is(err, domain.ErrWalletNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
	} else {
		def, err := s.walletRepo.GetDefault(userID)
		if err == nil {
			walletID = &def.ID
		} else if !errors.Is(err, domain.ErrWalletNotFound) {
			return nil, err
		}
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetVisibleByID(userID, *input.CategoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	return s.transactionRepo.Create(&domain.Transaction{
		UserID:      userID,
		WalletID:    walletID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        date,
	})
}

// GetTransactions retrieves the user's transactions matching the filter,
// most recent first.
func (s *TransactionService) GetTransactions(userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	return s.transactionRepo.Find(userID, filter)
}

// GetTransactionByID retrieves a transaction by id
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id int64) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// Summarize returns the aggregate over the filtered set.
func (s *TransactionService) Summarize(userID uuid.UUID, filter *domain.TransactionFilter) (*domain.Summary, error) {
	transactions, err := s.transactionRepo.Find(userID, filter)
	if err != nil {
		return nil, err
	}
	return s.calc.Summarize(transactions), nil
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	WalletID    *int32
	CategoryID  *int32
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// UpdateTransaction updates a transaction with the same ownership checks as
// creation. No default-wallet fallback on update: a nil wallet clears it.
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id int64, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.WalletID != nil {
		if _, err := s.walletRepo.GetByID(userID, *input.WalletID); err != nil {
			if errors.Is(err, domain.ErrWalletNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetVisibleByID(userID, *input.CategoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, err
		}
	}

	return s.transactionRepo.Update(userID, id, &domain.UpdateTransactionData{
		WalletID:    input.WalletID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        input.Date,
	})
}

// DeleteTransaction deletes a transaction
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id int64) error {
	return s.transactionRepo.Delete(userID, id)
}
