package service

import (
	"github.com/google/uuid"

	"github.com/nexora/nexora-backend/internal/domain"
)

// Profile bundles the user's account fields with their preferences
type Profile struct {
	User        *domain.User           `json:"user"`
	Preferences *domain.UserPreference `json:"preferences"`
}

// ProfileService handles profile reads and updates
type ProfileService struct {
	userRepo       domain.UserRepository
	preferenceRepo domain.PreferenceRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, preferenceRepo domain.PreferenceRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, preferenceRepo: preferenceRepo}
}

// GetProfile retrieves the user's profile and preferences
func (s *ProfileService) GetProfile(userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	pref, err := s.preferenceRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Preferences: pref}, nil
}

// ProfileUpdateInput carries the mutable profile fields. Nil means unchanged.
type ProfileUpdateInput struct {
	Email      *string
	FirstName  *string
	LastName   *string
	Currency   *string
	Timezone   *string
	DateFormat *string
}

// UpdateProfile applies a partial update to the user's account fields and
// preferences.
func (s *ProfileService) UpdateProfile(userID uuid.UUID, input ProfileUpdateInput) (*Profile, error) {
	user, err := s.userRepo.UpdateProfile(userID, &domain.UserProfileUpdate{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return nil, err
	}

	pref, err := s.preferenceRepo.Update(userID, &domain.PreferenceUpdate{
		Currency:   input.Currency,
		Timezone:   input.Timezone,
		DateFormat: input.DateFormat,
	})
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Preferences: pref}, nil
}
