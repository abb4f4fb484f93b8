package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"mealdiary/internal/meals"
)

// MealsMemoryStorage implements meals.Storage with a mutex-guarded map.
// All operations are serialized, so concurrent handlers never observe a
// half-applied update.
type MealsMemoryStorage struct {
	mu    sync.RWMutex
	meals map[uuid.UUID]meals.Meal
}

// NewMealsMemoryStorage creates a new in-memory meals storage.
func NewMealsMemoryStorage() *MealsMemoryStorage {
	return &MealsMemoryStorage{meals: make(map[uuid.UUID]meals.Meal)}
}

// CreateMeal stores a new meal.
func (s *MealsMemoryStorage) CreateMeal(ctx context.Context, meal *meals.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}

	now := time.Now()
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = now
	}
	meal.UpdatedAt = now

	s.meals[meal.ID] = *meal

	return nil
}

// GetMeal retrieves a meal by ID.
func (s *MealsMemoryStorage) GetMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[id]
	if !ok {
		return nil, meals.ErrMealNotFound
	}

	return &m, nil
}

// ListMeals returns meals matching the filter, most recent first.
func (s *MealsMemoryStorage) ListMeals(ctx context.Context, filter meals.Filter) ([]meals.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []meals.Meal{}
	for _, m := range s.meals {
		if filter.Matches(&m) {
			result = append(result, m)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].EatenAt.Equal(result[j].EatenAt) {
			return result[i].EatenAt.After(result[j].EatenAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// ListRange returns meals with start <= eaten_at < end, ascending.
func (s *MealsMemoryStorage) ListRange(ctx context.Context, start, end time.Time) ([]meals.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []meals.Meal{}
	for _, m := range s.meals {
		if !m.EatenAt.Before(start) && m.EatenAt.Before(end) {
			result = append(result, m)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].EatenAt.Equal(result[j].EatenAt) {
			return result[i].EatenAt.Before(result[j].EatenAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// UpdateMeal merges present patch fields and bumps updated_at.
func (s *MealsMemoryStorage) UpdateMeal(ctx context.Context, id uuid.UUID, patch meals.MealPatch) (*meals.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[id]
	if !ok {
		return nil, meals.ErrMealNotFound
	}

	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Calories != nil {
		m.Calories = *patch.Calories
	}
	if patch.EatenAt != nil {
		m.EatenAt = *patch.EatenAt
	}
	if patch.Category != nil {
		m.Category = *patch.Category
	}
	if patch.IsFavorite != nil {
		m.IsFavorite = *patch.IsFavorite
	}
	if patch.ImageURL != nil {
		m.ImageURL = *patch.ImageURL
	}
	m.UpdatedAt = time.Now()

	s.meals[id] = m

	return &m, nil
}

// DeleteMeal removes a meal and returns the removed record.
func (s *MealsMemoryStorage) DeleteMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[id]
	if !ok {
		return nil, meals.ErrMealNotFound
	}

	delete(s.meals, id)

	return &m, nil
}
