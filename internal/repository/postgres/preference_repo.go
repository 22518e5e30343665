package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexora/nexora-backend/internal/domain"
)

// PreferenceRepository implements domain.PreferenceRepository using
// PostgreSQL
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

func scanPreference(row pgx.Row) (*domain.UserPreference, error) {
	var p domain.UserPreference
	err := row.Scan(&p.UserID, &p.AvatarURL, &p.Currency, &p.Timezone, &p.DateFormat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPreferenceNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByUser retrieves the user's preference row. The row is created at
// registration; a miss is a real error, not a cue to create one.
func (r *PreferenceRepository) GetByUser(userID uuid.UUID) (*domain.UserPreference, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT user_id, avatar_url, currency, timezone, date_format
		 FROM user_preferences WHERE user_id = $1`, userID)
	return scanPreference(row)
}

// Update applies the non-nil fields of the update
func (r *PreferenceRepository) Update(userID uuid.UUID, update *domain.PreferenceUpdate) (*domain.UserPreference, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE user_preferences SET
		   avatar_url = COALESCE($2, avatar_url),
		   currency = COALESCE($3, currency),
		   timezone = COALESCE($4, timezone),
		   date_format = COALESCE($5, date_format)
		 WHERE user_id = $1
		 RETURNING user_id, avatar_url, currency, timezone, date_format`,
		userID, update.AvatarURL, update.Currency, update.Timezone, update.DateFormat)
	return scanPreference(row)
}
