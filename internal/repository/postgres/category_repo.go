package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/nexora-backend/internal/domain"
)

const categoryColumns = `id, user_id, name, type, icon, color`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create creates a user-owned category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO categories (user_id, name, type, icon, color)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+categoryColumns,
		category.UserID, category.Name, category.Type, category.Icon, category.Color)
	created, err := scanCategory(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return created, err
}

// GetVisibleByID retrieves a category visible to the user (owned or global)
func (r *CategoryRepository) GetVisibleByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+categoryColumns+` FROM categories
		 WHERE id = $2 AND (user_id = $1 OR user_id IS NULL)`,
		userID, id)
	return scanCategory(row)
}

// GetAllVisible retrieves the user's categories plus global ones, by name
func (r *CategoryRepository) GetAllVisible(userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+categoryColumns+` FROM categories
		 WHERE user_id = $1 OR user_id IS NULL
		 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FindVisibleByName retrieves the first visible category with the given
// name, preferring the user's own category over a global one.
func (r *CategoryRepository) FindVisibleByName(userID uuid.UUID, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+categoryColumns+` FROM categories
		 WHERE name = $2 AND (user_id = $1 OR user_id IS NULL)
		 ORDER BY user_id NULLS LAST
		 LIMIT 1`,
		userID, name)
	return scanCategory(row)
}

// Update updates an owned category; global categories are not updatable
func (r *CategoryRepository) Update(userID uuid.UUID, id int32, name string, catType domain.CategoryType, icon, color string) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE categories SET name = $3, type = $4, icon = $5, color = $6
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+categoryColumns,
		userID, id, name, catType, icon, color)
	updated, err := scanCategory(row)
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return updated, err
}

// Delete removes an owned category; referencing transactions keep their rows
// with the category reference nulled by the schema
func (r *CategoryRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
