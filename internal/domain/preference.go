package domain

import "github.com/google/uuid"

// Preference defaults. A preference row is created explicitly at
// registration time; there is no lazy get-or-create on read.
const (
	DefaultCurrency   = "FCFA"
	DefaultTimezone   = "UTC"
	DefaultDateFormat = "DD/MM/YYYY"
)

// UserPreference holds per-user display settings, one-to-one with the user.
type UserPreference struct {
	UserID     uuid.UUID `json:"-"`
	AvatarURL  string    `json:"avatar_url"`
	Currency   string    `json:"currency"`
	Timezone   string    `json:"timezone"`
	DateFormat string    `json:"date_format"`
}

// NewDefaultPreference returns a preference row with the documented defaults.
func NewDefaultPreference(userID uuid.UUID) *UserPreference {
	return &UserPreference{
		UserID:     userID,
		Currency:   DefaultCurrency,
		Timezone:   DefaultTimezone,
		DateFormat: DefaultDateFormat,
	}
}

// PreferenceUpdate carries mutable preference fields. Nil means unchanged.
type PreferenceUpdate struct {
	AvatarURL  *string
	Currency   *string
	Timezone   *string
	DateFormat *string
}

// PreferenceRepository defines the interface for preference persistence
// operations
type PreferenceRepository interface {
	GetByUser(userID uuid.UUID) (*UserPreference, error)
	Update(userID uuid.UUID, update *PreferenceUpdate) (*UserPreference, error)
}
