package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/nexora-backend/internal/domain"
)

const transactionSelect = `
SELECT t.id, t.user_id, t.wallet_id, t.category_id, t.amount, t.description, t.date, t.created_at,
       c.name, c.icon, c.color, w.name, w.color
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id
LEFT JOIN wallets w ON w.id = t.wallet_id`

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t        domain.Transaction
		walletID pgtype.Int4
		catID    pgtype.Int4
		amount   pgtype.Numeric
		catName  pgtype.Text
		catIcon  pgtype.Text
		catColor pgtype.Text
		wName    pgtype.Text
		wColor   pgtype.Text
	)
	err := row.Scan(&t.ID, &t.UserID, &walletID, &catID, &amount, &t.Description, &t.Date, &t.CreatedAt,
		&catName, &catIcon, &catColor, &wName, &wColor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	t.WalletID = int4OrNil(walletID)
	t.CategoryID = int4OrNil(catID)
	t.Amount = pgNumericToDecimal(amount)
	t.CategoryName = textOrNil(catName)
	t.CategoryIcon = textOrNil(catIcon)
	t.CategoryColor = textOrNil(catColor)
	t.WalletName = textOrNil(wName)
	t.WalletColor = textOrNil(wColor)
	return &t, nil
}

// Create inserts a transaction and returns it with joined category/wallet
// display fields
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, wallet_id, category_id, amount, description, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		transaction.UserID, nilToInt4(transaction.WalletID), nilToInt4(transaction.CategoryID),
		amount, transaction.Description, transaction.Date).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(transaction.UserID, id)
}

// GetByID retrieves a transaction by id, scoped to its owner
func (r *TransactionRepository) GetByID(userID uuid.UUID, id int64) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		transactionSelect+` WHERE t.user_id = $1 AND t.id = $2`, userID, id)
	return scanTransaction(row)
}

// Find retrieves the user's transactions matching the filter, most recent
// first (date descending, id descending as the stable tie-break). User
// scoping is unconditional.
func (r *TransactionRepository) Find(userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	conditions := []string{"t.user_id = $1"}
	args := []interface{}{userID}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Query != "" {
			p := arg("%" + filter.Query + "%")
			conditions = append(conditions, fmt.Sprintf("(t.description ILIKE %s OR c.name ILIKE %s)", p, p))
		}
		if filter.CategoryID != nil {
			conditions = append(conditions, "t.category_id = "+arg(*filter.CategoryID))
		}
		if filter.WalletID != nil {
			conditions = append(conditions, "t.wallet_id = "+arg(*filter.WalletID))
		}
		if filter.Kind != nil {
			switch *filter.Kind {
			case domain.KindIncome:
				conditions = append(conditions, "t.amount > 0")
			case domain.KindExpense:
				conditions = append(conditions, "t.amount < 0")
			}
		}
		if filter.DateFrom != nil {
			conditions = append(conditions, "t.date >= "+arg(*filter.DateFrom))
		}
		if filter.DateTo != nil {
			conditions = append(conditions, "t.date <= "+arg(*filter.DateTo))
		}
		if filter.MinAmount != nil {
			n, err := decimalToPgNumeric(*filter.MinAmount)
			if err != nil {
				return nil, fmt.Errorf("invalid min amount: %w", err)
			}
			conditions = append(conditions, "t.amount >= "+arg(n))
		}
		if filter.MaxAmount != nil {
			n, err := decimalToPgNumeric(*filter.MaxAmount)
			if err != nil {
				return nil, fmt.Errorf("invalid max amount: %w", err)
			}
			conditions = append(conditions, "t.amount <= "+arg(n))
		}
	}

	query := transactionSelect +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY t.date DESC, t.id DESC"

	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// Update updates a transaction's details
func (r *TransactionRepository) Update(userID uuid.UUID, id int64, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions
		 SET wallet_id = $3, category_id = $4, amount = $5, description = $6, date = $7
		 WHERE user_id = $1 AND id = $2`,
		userID, id, nilToInt4(data.WalletID), nilToInt4(data.CategoryID),
		amount, data.Description, data.Date)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return r.GetByID(userID, id)
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(userID uuid.UUID, id int64) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
