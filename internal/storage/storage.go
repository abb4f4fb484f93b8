package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"mealdiary/internal/meals"
)

// ErrPreferencesNotFound is returned when the preferences row is missing and
// lazy creation is not possible.
var ErrPreferencesNotFound = errors.New("preferences not found")

// Preferences is the single-user settings row: display name, contact email,
// and the daily calorie goal the summary is scored against.
type Preferences struct {
	ID          uuid.UUID
	DisplayName string
	Email       string
	CalorieGoal int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PreferencesPatch carries a partial preferences update. Nil fields are not
// applied.
type PreferencesPatch struct {
	DisplayName *string
	Email       *string
	CalorieGoal *int
}

// PreferencesStorage manages the singleton preferences row.
type PreferencesStorage interface {
	// GetPreferences returns the row, creating it with defaults on first read.
	GetPreferences(ctx context.Context) (*Preferences, error)

	// UpdatePreferences merges present patch fields and bumps updated_at.
	UpdatePreferences(ctx context.Context, patch PreferencesPatch) (*Preferences, error)
}

// Store is the full persistence surface: meals plus preferences.
// Both realizations (Postgres and memory) satisfy it.
type Store interface {
	meals.Storage
	PreferencesStorage

	// Close releases the underlying connection pool (no-op for memory).
	Close() error
}
