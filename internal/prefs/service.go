package prefs

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"mealdiary/internal/storage"
)

var (
	ErrInvalidDisplayName = errors.New("display_name must not be empty")
	ErrInvalidEmail       = errors.New("email is not a valid address")
	ErrInvalidCalorieGoal = errors.New("calorie_goal must not be negative")
)

// Service handles user preferences. The row is a singleton and comes into
// existence on first read, so GET never 404s.
type Service struct {
	storage storage.PreferencesStorage
}

// NewService creates a new preferences service.
func NewService(st storage.PreferencesStorage) *Service {
	return &Service{storage: st}
}

// Get returns the preferences, creating defaults on first read.
func (s *Service) Get(ctx context.Context) (*PreferencesDTO, error) {
	prefs, err := s.storage.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}

	return toDTO(prefs), nil
}

// Update merges present fields onto the stored preferences.
func (s *Service) Update(ctx context.Context, req UpdatePreferencesRequest) (*PreferencesDTO, error) {
	var patch storage.PreferencesPatch

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, ErrInvalidDisplayName
		}
		patch.DisplayName = &name
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		// Empty clears the address; anything else must at least look like one.
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, ErrInvalidEmail
			}
		}
		patch.Email = &email
	}

	if req.CalorieGoal != nil {
		// A zero goal is allowed and disables the percent display.
		if *req.CalorieGoal < 0 {
			return nil, ErrInvalidCalorieGoal
		}
		patch.CalorieGoal = req.CalorieGoal
	}

	prefs, err := s.storage.UpdatePreferences(ctx, patch)
	if err != nil {
		return nil, err
	}

	return toDTO(prefs), nil
}

func toDTO(prefs *storage.Preferences) *PreferencesDTO {
	return &PreferencesDTO{
		ID:          prefs.ID,
		DisplayName: prefs.DisplayName,
		Email:       prefs.Email,
		CalorieGoal: prefs.CalorieGoal,
		CreatedAt:   prefs.CreatedAt,
		UpdatedAt:   prefs.UpdatedAt,
	}
}
