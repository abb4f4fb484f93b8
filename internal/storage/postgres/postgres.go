package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealdiary/internal/meals"
	"mealdiary/internal/storage"
)

// PostgresStorage is the durable realization of storage.Store.
type PostgresStorage struct {
	pool  *pgxpool.Pool
	meals *PostgresMealsStorage
	prefs *PostgresPreferencesStorage
}

// New creates a PostgresStorage and verifies connectivity with a ping.
func New(ctx context.Context, databaseURL string, defaultCalorieGoal int) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:  pool,
		meals: NewPostgresMealsStorage(pool),
		prefs: NewPostgresPreferencesStorage(pool, defaultCalorieGoal),
	}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// MealsStorage methods - delegate to embedded meals storage

func (p *PostgresStorage) CreateMeal(ctx context.Context, meal *meals.Meal) error {
	return p.meals.CreateMeal(ctx, meal)
}

func (p *PostgresStorage) GetMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	return p.meals.GetMeal(ctx, id)
}

func (p *PostgresStorage) ListMeals(ctx context.Context, filter meals.Filter) ([]meals.Meal, error) {
	return p.meals.ListMeals(ctx, filter)
}

func (p *PostgresStorage) ListRange(ctx context.Context, start, end time.Time) ([]meals.Meal, error) {
	return p.meals.ListRange(ctx, start, end)
}

func (p *PostgresStorage) UpdateMeal(ctx context.Context, id uuid.UUID, patch meals.MealPatch) (*meals.Meal, error) {
	return p.meals.UpdateMeal(ctx, id, patch)
}

func (p *PostgresStorage) DeleteMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	return p.meals.DeleteMeal(ctx, id)
}

// PreferencesStorage methods - delegate to embedded preferences storage

func (p *PostgresStorage) GetPreferences(ctx context.Context) (*storage.Preferences, error) {
	return p.prefs.GetPreferences(ctx)
}

func (p *PostgresStorage) UpdatePreferences(ctx context.Context, patch storage.PreferencesPatch) (*storage.Preferences, error) {
	return p.prefs.UpdatePreferences(ctx, patch)
}
