package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SeedWalletName is the wallet created for every new user.
	SeedWalletName = "Principal"
	// SeedWalletColor is the color of the registration-seeded wallet.
	SeedWalletColor = "#60A5FA"
	// ResetWalletColor is the color of the wallet recreated by a data reset.
	ResetWalletColor = "#24C289"

	DefaultWalletColor = "#60A5FA"
)

// Wallet is a named money container. At most one wallet per user is the
// default at any time; the default receives transactions created without an
// explicit wallet.
type Wallet struct {
	ID        int32     `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// WalletRepository defines the interface for wallet persistence operations
type WalletRepository interface {
	Create(wallet *Wallet) (*Wallet, error)
	GetByID(userID uuid.UUID, id int32) (*Wallet, error)
	// GetAllByUser returns the user's wallets ordered default-first, then name.
	GetAllByUser(userID uuid.UUID) ([]*Wallet, error)
	GetDefault(userID uuid.UUID) (*Wallet, error)
	HasAny(userID uuid.UUID) (bool, error)
	Update(userID uuid.UUID, id int32, name, color string) (*Wallet, error)
	Delete(userID uuid.UUID, id int32) error
	// MakeDefault clears the previous default and sets the new one within a
	// single transaction, so no reader observes zero or two defaults.
	MakeDefault(userID uuid.UUID, id int32) error
}
