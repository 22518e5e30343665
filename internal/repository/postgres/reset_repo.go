package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/nexora-backend/internal/domain"
)

// AccountResetRepository implements domain.AccountResetRepository using
// PostgreSQL
type AccountResetRepository struct {
	pool *pgxpool.Pool
}

// NewAccountResetRepository creates a new AccountResetRepository
func NewAccountResetRepository(pool *pgxpool.Pool) *AccountResetRepository {
	return &AccountResetRepository{pool: pool}
}

// Reset wipes the user's financial data and reseeds the defaults in one
// transaction. Order matters: transactions and budgets reference wallets and
// categories.
func (r *AccountResetRepository) Reset(userID uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM transactions WHERE user_id = $1`,
		`DELETE FROM budgets WHERE user_id = $1`,
		`DELETE FROM wallets WHERE user_id = $1`,
		`DELETE FROM categories WHERE user_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, userID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE user_preferences
		 SET avatar_url = '', currency = $2, timezone = $3, date_format = $4
		 WHERE user_id = $1`,
		userID, domain.DefaultCurrency, domain.DefaultTimezone, domain.DefaultDateFormat); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO wallets (user_id, name, color, is_default)
		 VALUES ($1, $2, $3, true)`,
		userID, domain.SeedWalletName, domain.ResetWalletColor); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
