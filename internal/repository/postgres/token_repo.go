package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/nexora-backend/internal/domain"
)

// TokenRepository implements domain.TokenRepository using PostgreSQL
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// CreateVerification invalidates the user's previous unused verification
// tokens and stores the new one, in a single transaction.
func (r *TokenRepository) CreateVerification(token *domain.EmailVerificationToken) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE email_verification_tokens SET used_at = now()
		 WHERE user_id = $1 AND used_at IS NULL`, token.UserID); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO email_verification_tokens (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		token.UserID, token.TokenHash, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetVerificationByHash retrieves a verification token by its hash
func (r *TokenRepository) GetVerificationByHash(hash string) (*domain.EmailVerificationToken, error) {
	var t domain.EmailVerificationToken
	err := r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, token_hash, expires_at, used_at, created_at
		 FROM email_verification_tokens WHERE token_hash = $1`, hash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return &t, nil
}

// MarkVerificationUsed consumes a verification token
func (r *TokenRepository) MarkVerificationUsed(id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE email_verification_tokens SET used_at = now()
		 WHERE id = $1 AND used_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

// CreateRefresh stores a refresh token
func (r *TokenRepository) CreateRefresh(token *domain.RefreshToken) error {
	return r.pool.QueryRow(context.Background(),
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		token.UserID, token.TokenHash, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
}

// GetRefreshByHash retrieves a refresh token by its hash
func (r *TokenRepository) GetRefreshByHash(hash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, hash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return &t, nil
}

// RevokeRefresh revokes a refresh token
func (r *TokenRepository) RevokeRefresh(id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE refresh_tokens SET revoked_at = now()
		 WHERE id = $1 AND revoked_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}
