package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holder. Accounts start inactive and are
// activated through the email verification flow.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserProfileUpdate carries the mutable profile fields. Nil means unchanged.
type UserProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByUsername(username string) (*User, error)
	// CreateWithDefaults inserts the user together with their preference row
	// and seeded default wallet in a single transaction.
	CreateWithDefaults(user *User, pref *UserPreference, wallet *Wallet) (*User, error)
	UpdateProfile(id uuid.UUID, update *UserProfileUpdate) (*User, error)
	Activate(id uuid.UUID) error
	TouchLastLogin(id uuid.UUID) error
}
