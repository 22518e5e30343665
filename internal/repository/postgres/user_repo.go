package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/nexora-backend/internal/domain"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, is_active, last_login, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// CreateWithDefaults inserts the user, their preference row and the seeded
// default wallet in one transaction, so a half-registered account is never
// observable.
func (r *UserRepository) CreateWithDefaults(user *domain.User, pref *domain.UserPreference, wallet *domain.Wallet) (*domain.User, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsActive)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_preferences (user_id, avatar_url, currency, timezone, date_format)
		 VALUES ($1, $2, $3, $4, $5)`,
		created.ID, pref.AvatarURL, pref.Currency, pref.Timezone, pref.DateFormat)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO wallets (user_id, name, color, is_default)
		 VALUES ($1, $2, $3, $4)`,
		created.ID, wallet.Name, wallet.Color, wallet.IsDefault)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateProfile updates the user's mutable profile fields
func (r *UserRepository) UpdateProfile(id uuid.UUID, update *domain.UserProfileUpdate) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET
		   email = COALESCE($2, email),
		   first_name = COALESCE($3, first_name),
		   last_name = COALESCE($4, last_name),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, update.Email, update.FirstName, update.LastName)
	return scanUser(row)
}

// Activate marks the user's account as active
func (r *UserRepository) Activate(id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE users SET is_active = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// TouchLastLogin records a successful login
func (r *UserRepository) TouchLastLogin(id uuid.UUID) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE users SET last_login = now() WHERE id = $1`, id)
	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// Fallback for wrapped drivers that only expose the message.
	return err != nil && strings.Contains(err.Error(), "23505")
}
