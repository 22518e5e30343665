package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
)

const budgetSelect = `
SELECT b.id, b.user_id, b.wallet_id, b.category_id, b.month, b.limit_amount, c.name, w.name
FROM budgets b
JOIN categories c ON c.id = b.category_id
LEFT JOIN wallets w ON w.id = b.wallet_id`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b        domain.Budget
		walletID pgtype.Int4
		limit    pgtype.Numeric
		wName    pgtype.Text
	)
	err := row.Scan(&b.ID, &b.UserID, &walletID, &b.CategoryID, &b.Month, &limit, &b.CategoryName, &wName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	b.WalletID = int4OrNil(walletID)
	b.LimitAmount = pgNumericToDecimal(limit)
	b.WalletName = textOrNil(wName)
	return &b, nil
}

// Create inserts a budget. Month is expected pre-normalized to the first of
// the month by the service layer.
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	limit, err := decimalToPgNumeric(budget.LimitAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid limit amount: %w", err)
	}

	var id int32
	err = r.pool.QueryRow(context.Background(),
		`INSERT INTO budgets (user_id, wallet_id, category_id, month, limit_amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		budget.UserID, nilToInt4(budget.WalletID), budget.CategoryID, budget.Month, limit).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(budget.UserID, id)
}

// GetByID retrieves a budget by id, scoped to its owner
func (r *BudgetRepository) GetByID(userID uuid.UUID, id int32) (*domain.Budget, error) {
	row := r.pool.QueryRow(context.Background(),
		budgetSelect+` WHERE b.user_id = $1 AND b.id = $2`, userID, id)
	return scanBudget(row)
}

// Find retrieves the user's budgets, newest month first then category name
func (r *BudgetRepository) Find(userID uuid.UUID, filter *domain.BudgetFilter) ([]*domain.Budget, error) {
	conditions := "b.user_id = $1"
	args := []interface{}{userID}

	if filter != nil {
		if filter.Month != nil {
			args = append(args, *filter.Month)
			conditions += fmt.Sprintf(" AND b.month = $%d", len(args))
		}
		if filter.WalletID != nil {
			args = append(args, *filter.WalletID)
			conditions += fmt.Sprintf(" AND b.wallet_id = $%d", len(args))
		}
	}

	rows, err := r.pool.Query(context.Background(),
		budgetSelect+" WHERE "+conditions+" ORDER BY b.month DESC, c.name ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgets(rows)
}

// FindByMonth retrieves the budgets for a normalized month ordered by id,
// for deterministic status evaluation
func (r *BudgetRepository) FindByMonth(userID uuid.UUID, month time.Time) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(),
		budgetSelect+` WHERE b.user_id = $1 AND b.month = $2 ORDER BY b.id ASC`,
		userID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgets(rows)
}

func collectBudgets(rows pgx.Rows) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// Update updates a budget's fields
func (r *BudgetRepository) Update(userID uuid.UUID, id int32, walletID *int32, categoryID int32, month time.Time, limit decimal.Decimal) (*domain.Budget, error) {
	limitNumeric, err := decimalToPgNumeric(limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit amount: %w", err)
	}

	tag, err := r.pool.Exec(context.Background(),
		`UPDATE budgets
		 SET wallet_id = $3, category_id = $4, month = $5, limit_amount = $6
		 WHERE user_id = $1 AND id = $2`,
		userID, id, nilToInt4(walletID), categoryID, month, limitNumeric)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrBudgetNotFound
	}
	return r.GetByID(userID, id)
}

// Delete removes a budget
func (r *BudgetRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
