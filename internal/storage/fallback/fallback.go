package fallback

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"mealdiary/internal/meals"
	"mealdiary/internal/storage"
)

// FallbackStorage serves every operation from the durable primary store and
// transparently retries against the in-memory standby when the primary is
// unreachable. Domain errors (not found) pass through untouched; only
// infrastructure failures trigger the failover. Records written while the
// primary is down live only in the standby and are lost on restart.
type FallbackStorage struct {
	primary storage.Store
	standby storage.Store
	timeout time.Duration
}

// New wraps a primary store with an in-memory standby. Each primary call is
// bounded by the given timeout so a hung database never stalls a request.
func New(primary, standby storage.Store, timeout time.Duration) *FallbackStorage {
	return &FallbackStorage{
		primary: primary,
		standby: standby,
		timeout: timeout,
	}
}

// shouldFailover reports whether an error indicates the primary store is
// unusable, as opposed to a domain answer the caller must see.
func shouldFailover(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, meals.ErrMealNotFound) || errors.Is(err, storage.ErrPreferencesNotFound) {
		return false
	}
	// The client went away; nothing to recover.
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func (f *FallbackStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, f.timeout)
}

func (f *FallbackStorage) Close() error {
	return f.primary.Close()
}

// MealsStorage methods

func (f *FallbackStorage) CreateMeal(ctx context.Context, meal *meals.Meal) error {
	pctx, cancel := f.withTimeout(ctx)
	err := f.primary.CreateMeal(pctx, meal)
	cancel()
	if !shouldFailover(err) {
		return err
	}

	log.Printf("WARN storage: primary CreateMeal failed, using memory standby: %v", err)
	return f.standby.CreateMeal(ctx, meal)
}

func (f *FallbackStorage) GetMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	pctx, cancel := f.withTimeout(ctx)
	m, err := f.primary.GetMeal(pctx, id)
	cancel()
	if !shouldFailover(err) {
		return m, err
	}

	log.Printf("WARN storage: primary GetMeal failed, using memory standby: %v", err)
	return f.standby.GetMeal(ctx, id)
}

func (f *FallbackStorage) ListMeals(ctx context.Context, filter meals.Filter) ([]meals.Meal, error) {
	pctx, cancel := f.withTimeout(ctx)
	result, err := f.primary.ListMeals(pctx, filter)
	cancel()
	if !shouldFailover(err) {
		return result, err
	}

	log.Printf("WARN storage: primary ListMeals failed, using memory standby: %v", err)
	return f.standby.ListMeals(ctx, filter)
}

func (f *FallbackStorage) ListRange(ctx context.Context, start, end time.Time) ([]meals.Meal, error) {
	pctx, cancel := f.withTimeout(ctx)
	result, err := f.primary.ListRange(pctx, start, end)
	cancel()
	if !shouldFailover(err) {
		return result, err
	}

	log.Printf("WARN storage: primary ListRange failed, using memory standby: %v", err)
	return f.standby.ListRange(ctx, start, end)
}

func (f *FallbackStorage) UpdateMeal(ctx context.Context, id uuid.UUID, patch meals.MealPatch) (*meals.Meal, error) {
	pctx, cancel := f.withTimeout(ctx)
	m, err := f.primary.UpdateMeal(pctx, id, patch)
	cancel()
	if !shouldFailover(err) {
		return m, err
	}

	log.Printf("WARN storage: primary UpdateMeal failed, using memory standby: %v", err)
	return f.standby.UpdateMeal(ctx, id, patch)
}

func (f *FallbackStorage) DeleteMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	pctx, cancel := f.withTimeout(ctx)
	m, err := f.primary.DeleteMeal(pctx, id)
	cancel()
	if !shouldFailover(err) {
		return m, err
	}

	log.Printf("WARN storage: primary DeleteMeal failed, using memory standby: %v", err)
	return f.standby.DeleteMeal(ctx, id)
}

// PreferencesStorage methods

func (f *FallbackStorage) GetPreferences(ctx context.Context) (*storage.Preferences, error) {
	pctx, cancel := f.withTimeout(ctx)
	prefs, err := f.primary.GetPreferences(pctx)
	cancel()
	if !shouldFailover(err) {
		return prefs, err
	}

	log.Printf("WARN storage: primary GetPreferences failed, using memory standby: %v", err)
	return f.standby.GetPreferences(ctx)
}

func (f *FallbackStorage) UpdatePreferences(ctx context.Context, patch storage.PreferencesPatch) (*storage.Preferences, error) {
	pctx, cancel := f.withTimeout(ctx)
	prefs, err := f.primary.UpdatePreferences(pctx, patch)
	cancel()
	if !shouldFailover(err) {
		return prefs, err
	}

	log.Printf("WARN storage: primary UpdatePreferences failed, using memory standby: %v", err)
	return f.standby.UpdatePreferences(ctx, patch)
}
