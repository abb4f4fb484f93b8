package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealdiary/internal/meals"
)

const mealColumns = "id, name, description, calories, eaten_at, category, is_favorite, image_url, created_at, updated_at"

// PostgresMealsStorage implements meals.Storage.
type PostgresMealsStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresMealsStorage creates a new Postgres meals storage.
func NewPostgresMealsStorage(pool *pgxpool.Pool) *PostgresMealsStorage {
	return &PostgresMealsStorage{pool: pool}
}

// CreateMeal inserts a new meal row.
func (s *PostgresMealsStorage) CreateMeal(ctx context.Context, meal *meals.Meal) error {
	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}

	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	query := `
		INSERT INTO meals (` + mealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		meal.ID,
		meal.Name,
		meal.Description,
		meal.Calories,
		meal.EatenAt,
		meal.Category,
		meal.IsFavorite,
		meal.ImageURL,
		meal.CreatedAt,
		meal.UpdatedAt,
	)

	return err
}

// GetMeal retrieves a meal by ID.
func (s *PostgresMealsStorage) GetMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE id = $1
	`

	m, err := scanMeal(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, meals.ErrMealNotFound
		}
		return nil, err
	}

	return m, nil
}

// ListMeals returns meals matching the filter, most recent first.
// The WHERE clause mirrors meals.Filter.Matches.
func (s *PostgresMealsStorage) ListMeals(ctx context.Context, filter meals.Filter) ([]meals.Meal, error) {
	var conds []string
	var args []any

	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		conds = append(conds, fmt.Sprintf("eaten_at >= $%d", len(args)))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		conds = append(conds, fmt.Sprintf("eaten_at <= $%d", len(args)))
	}
	if filter.Favorite != nil {
		args = append(args, *filter.Favorite)
		conds = append(conds, fmt.Sprintf("is_favorite = $%d", len(args)))
	}

	query := "SELECT " + mealColumns + " FROM meals"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY eaten_at DESC, created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMeals(rows)
}

// ListRange returns meals with start <= eaten_at < end, ascending.
func (s *PostgresMealsStorage) ListRange(ctx context.Context, start, end time.Time) ([]meals.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE eaten_at >= $1 AND eaten_at < $2
		ORDER BY eaten_at ASC, created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMeals(rows)
}

// UpdateMeal merges present patch fields and bumps updated_at.
// COALESCE applies only the non-null parameters, so the merge happens in a
// single round trip.
func (s *PostgresMealsStorage) UpdateMeal(ctx context.Context, id uuid.UUID, patch meals.MealPatch) (*meals.Meal, error) {
	query := `
		UPDATE meals
		SET name        = COALESCE($2, name),
		    description = COALESCE($3, description),
		    calories    = COALESCE($4, calories),
		    eaten_at    = COALESCE($5, eaten_at),
		    category    = COALESCE($6, category),
		    is_favorite = COALESCE($7, is_favorite),
		    image_url   = COALESCE($8, image_url),
		    updated_at  = $9
		WHERE id = $1
		RETURNING ` + mealColumns + `
	`

	m, err := scanMeal(s.pool.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Description,
		patch.Calories,
		patch.EatenAt,
		patch.Category,
		patch.IsFavorite,
		patch.ImageURL,
		time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, meals.ErrMealNotFound
		}
		return nil, err
	}

	return m, nil
}

// DeleteMeal removes a meal and returns the removed row.
func (s *PostgresMealsStorage) DeleteMeal(ctx context.Context, id uuid.UUID) (*meals.Meal, error) {
	query := `
		DELETE FROM meals
		WHERE id = $1
		RETURNING ` + mealColumns + `
	`

	m, err := scanMeal(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, meals.ErrMealNotFound
		}
		return nil, err
	}

	return m, nil
}

func scanMeal(row pgx.Row) (*meals.Meal, error) {
	var m meals.Meal
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Calories,
		&m.EatenAt,
		&m.Category,
		&m.IsFavorite,
		&m.ImageURL,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMeals(rows pgx.Rows) ([]meals.Meal, error) {
	result := []meals.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}
