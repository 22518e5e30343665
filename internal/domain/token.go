package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerificationToken is a single-use account activation token. Only the
// SHA-256 hash of the raw token is stored.
type EmailVerificationToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// RefreshToken is a revocable session token, stored hashed.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// TokenRepository defines the interface for verification and refresh token
// persistence operations
type TokenRepository interface {
	// CreateVerification stores a new verification token after invalidating
	// any previously unused tokens for the user.
	CreateVerification(token *EmailVerificationToken) error
	GetVerificationByHash(hash string) (*EmailVerificationToken, error)
	MarkVerificationUsed(id uuid.UUID) error

	CreateRefresh(token *RefreshToken) error
	GetRefreshByHash(hash string) (*RefreshToken, error)
	RevokeRefresh(id uuid.UUID) error
}
