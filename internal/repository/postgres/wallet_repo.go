package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/nexora-backend/internal/domain"
)

const walletColumns = `id, user_id, name, color, is_default, created_at`

// WalletRepository implements domain.WalletRepository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Color, &w.IsDefault, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Create creates a new wallet
func (r *WalletRepository) Create(wallet *domain.Wallet) (*domain.Wallet, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO wallets (user_id, name, color, is_default)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+walletColumns,
		wallet.UserID, wallet.Name, wallet.Color, wallet.IsDefault)
	created, err := scanWallet(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return created, err
}

// GetByID retrieves a wallet by id, scoped to its owner
func (r *WalletRepository) GetByID(userID uuid.UUID, id int32) (*domain.Wallet, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanWallet(row)
}

// GetAllByUser retrieves the user's wallets, default first then by name
func (r *WalletRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Wallet, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+walletColumns+` FROM wallets
		 WHERE user_id = $1
		 ORDER BY is_default DESC, name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// GetDefault retrieves the user's default wallet
func (r *WalletRepository) GetDefault(userID uuid.UUID) (*domain.Wallet, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 AND is_default`, userID)
	return scanWallet(row)
}

// HasAny reports whether the user owns at least one wallet
func (r *WalletRepository) HasAny(userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

// Update updates a wallet's name and color
func (r *WalletRepository) Update(userID uuid.UUID, id int32, name, color string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE wallets SET name = $3, color = $4
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+walletColumns,
		userID, id, name, color)
	updated, err := scanWallet(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return updated, err
}

// Delete removes a wallet; referencing transactions keep their rows with the
// wallet reference nulled by the schema.
func (r *WalletRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM wallets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

// MakeDefault transfers default status to the given wallet. The clear and
// set run in one transaction so the one-default invariant holds for every
// reader.
func (r *WalletRepository) MakeDefault(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET is_default = false WHERE user_id = $1 AND is_default`, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE wallets SET is_default = true WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return tx.Commit(ctx)
}
