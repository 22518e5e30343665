package service

import (
	"github.com/google/uuid"

	"github.com/nexora/nexora-backend/internal/domain"
)

// ResetConfirmation is the exact phrase a caller must supply to wipe their
// data.
const ResetConfirmation = "RESET"

// ResetService handles full account data resets
type ResetService struct {
	resetRepo domain.AccountResetRepository
}

// NewResetService creates a new ResetService
func NewResetService(resetRepo domain.AccountResetRepository) *ResetService {
	return &ResetService{resetRepo: resetRepo}
}

// Reset deletes the user's transactions, budgets, wallets and owned
// categories, restores default preferences and recreates the default wallet.
// The whole wipe runs in one transaction.
func (s *ResetService) Reset(userID uuid.UUID, confirm string) error {
	if confirm != ResetConfirmation {
		return domain.ErrConfirmationRequired
	}
	return s.resetRepo.Reset(userID)
}
