package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mealdiary/internal/meals"
	"mealdiary/internal/storage"
)

// MemoryStorage is the transient realization of storage.Store. It backs the
// API when no database is reachable; contents are lost on restart.
type MemoryStorage struct {
	meals *MealsMemoryStorage
	prefs *PreferencesMemoryStorage
}

// New creates a new empty MemoryStorage.
func New(defaultCalorieGoal int) *MemoryStorage {
	return &MemoryStorage{
		meals: NewMealsMemoryStorage(),
		prefs: NewPreferencesMemoryStorage(defaultCalorieGoal),
	}
}

func (m *MemoryStorage) Close() error {
	// no-op for memory
	return nil
}

// MealsStorage methods - delegate to embedded meals storage

func (m *MemoryStorage) CreateMeal(ctx context.Context, meal *meals.Meal) error {
	return m.meals.CreateMeal(ctx, meal)
}

func (m *MemoryStorage) GetMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	return m.meals.GetMeal(ctx, id)
}

func (m *MemoryStorage) ListMeals(ctx context.Context, filter meals.Filter) ([]meals.Meal, error) {
	return m.meals.ListMeals(ctx, filter)
}

func (m *MemoryStorage) ListRange(ctx context.Context, start, end time.Time) ([]meals.Meal, error) {
	return m.meals.ListRange(ctx, start, end)
}

func (m *MemoryStorage) UpdateMeal(ctx context.Context, id uuid.UUID, patch meals.MealPatch) (*meals.Meal, error) {
	return m.meals.UpdateMeal(ctx, id, patch)
}

func (m *MemoryStorage) DeleteMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	return m.meals.DeleteMeal(ctx, id)
}

// PreferencesStorage methods - delegate to embedded preferences storage

func (m *MemoryStorage) GetPreferences(ctx context.Context) (*storage.Preferences, error) {
	return m.prefs.GetPreferences(ctx)
}

func (m *MemoryStorage) UpdatePreferences(ctx context.Context, patch storage.PreferencesPatch) (*storage.Preferences, error) {
	return m.prefs.UpdatePreferences(ctx, patch)
}
