package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nexora/nexora-backend/internal/domain"
)

// WalletService handles wallet business logic
type WalletService struct {
	walletRepo domain.WalletRepository
}

// NewWalletService creates a new WalletService
func NewWalletService(walletRepo domain.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

func validateWalletName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxWalletNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// CreateWallet creates a wallet. The first wallet a user creates becomes
// the default one.
func (s *WalletService) CreateWallet(userID uuid.UUID, name, color string) (*domain.Wallet, error) {
	name, err := validateWalletName(name)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = domain.DefaultWalletColor
	}

	hasAny, err := s.walletRepo.HasAny(userID)
	if err != nil {
		return nil, err
	}

	return s.walletRepo.Create(&domain.Wallet{
		UserID:    userID,
		Name:      name,
		Color:     color,
		IsDefault: !hasAny,
	})
}

// GetWallets lists the user's wallets, default first
func (s *WalletService) GetWallets(userID uuid.UUID) ([]*domain.Wallet, error) {
	return s.walletRepo.GetAllByUser(userID)
}

// GetWalletByID retrieves a wallet by id
func (s *WalletService) GetWalletByID(userID uuid.UUID, id int32) (*domain.Wallet, error) {
	return s.walletRepo.GetByID(userID, id)
}

// UpdateWallet updates a wallet's name and color
func (s *WalletService) UpdateWallet(userID uuid.UUID, id int32, name, color string) (*domain.Wallet, error) {
	name, err := validateWalletName(name)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = domain.DefaultWalletColor
	}
	return s.walletRepo.Update(userID, id, name, color)
}

// DeleteWallet deletes a wallet. Transactions referencing it keep existing
// with a null wallet.
func (s *WalletService) DeleteWallet(userID uuid.UUID, id int32) error {
	return s.walletRepo.Delete(userID, id)
}

// MakeDefault marks the wallet as the user's default, demoting any previous
// default in the same transaction.
func (s *WalletService) MakeDefault(userID uuid.UUID, id int32) (*domain.Wallet, error) {
	if err := s.walletRepo.MakeDefault(userID, id); err != nil {
		return nil, err
	}
	return s.walletRepo.GetByID(userID, id)
}
