package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mealdiary/internal/storage"
)

// PreferencesMemoryStorage implements storage.PreferencesStorage.
// The row is created lazily on first read, same as the Postgres realization.
type PreferencesMemoryStorage struct {
	mu                 sync.Mutex
	prefs              *storage.Preferences
	defaultCalorieGoal int
}

// NewPreferencesMemoryStorage creates a new in-memory preferences storage.
func NewPreferencesMemoryStorage(defaultCalorieGoal int) *PreferencesMemoryStorage {
	return &PreferencesMemoryStorage{defaultCalorieGoal: defaultCalorieGoal}
}

// GetPreferences returns the singleton row, creating it with defaults on
// first read.
func (s *PreferencesMemoryStorage) GetPreferences(ctx context.Context) (*storage.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs == nil {
		now := time.Now()
		s.prefs = &storage.Preferences{
			ID:          uuid.New(),
			DisplayName: "Me",
			CalorieGoal: s.defaultCalorieGoal,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	prefs := *s.prefs
	return &prefs, nil
}

// UpdatePreferences merges present patch fields and bumps updated_at.
func (s *PreferencesMemoryStorage) UpdatePreferences(ctx context.Context, patch storage.PreferencesPatch) (*storage.Preferences, error) {
	if _, err := s.GetPreferences(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.DisplayName != nil {
		s.prefs.DisplayName = *patch.DisplayName
	}
	if patch.Email != nil {
		s.prefs.Email = *patch.Email
	}
	if patch.CalorieGoal != nil {
		s.prefs.CalorieGoal = *patch.CalorieGoal
	}
	s.prefs.UpdatedAt = time.Now()

	prefs := *s.prefs
	return &prefs, nil
}
