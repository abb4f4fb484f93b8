package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mealdiary/internal/storage"
)

// PostgresPreferencesStorage implements storage.PreferencesStorage over a
// single-row table.
type PostgresPreferencesStorage struct {
	pool               *pgxpool.Pool
	defaultCalorieGoal int
}

// NewPostgresPreferencesStorage creates a new Postgres preferences storage.
func NewPostgresPreferencesStorage(pool *pgxpool.Pool, defaultCalorieGoal int) *PostgresPreferencesStorage {
	return &PostgresPreferencesStorage{pool: pool, defaultCalorieGoal: defaultCalorieGoal}
}

// GetPreferences returns the singleton row, creating it with defaults on
// first read.
func (s *PostgresPreferencesStorage) GetPreferences(ctx context.Context) (*storage.Preferences, error) {
	query := `
		SELECT id, display_name, email, calorie_goal, created_at, updated_at
		FROM user_prefs
		ORDER BY created_at ASC
		LIMIT 1
	`

	var prefs storage.Preferences
	err := s.pool.QueryRow(ctx, query).Scan(
		&prefs.ID,
		&prefs.DisplayName,
		&prefs.Email,
		&prefs.CalorieGoal,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return s.createDefault(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &prefs, nil
}

// UpdatePreferences merges present patch fields and bumps updated_at.
func (s *PostgresPreferencesStorage) UpdatePreferences(ctx context.Context, patch storage.PreferencesPatch) (*storage.Preferences, error) {
	// Ensure the row exists so the first write works on a fresh database.
	current, err := s.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE user_prefs
		SET display_name = COALESCE($2, display_name),
		    email        = COALESCE($3, email),
		    calorie_goal = COALESCE($4, calorie_goal),
		    updated_at   = $5
		WHERE id = $1
		RETURNING id, display_name, email, calorie_goal, created_at, updated_at
	`

	var prefs storage.Preferences
	err = s.pool.QueryRow(ctx, query,
		current.ID,
		patch.DisplayName,
		patch.Email,
		patch.CalorieGoal,
		time.Now(),
	).Scan(
		&prefs.ID,
		&prefs.DisplayName,
		&prefs.Email,
		&prefs.CalorieGoal,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &prefs, nil
}

func (s *PostgresPreferencesStorage) createDefault(ctx context.Context) (*storage.Preferences, error) {
	now := time.Now()
	prefs := storage.Preferences{
		ID:          uuid.New(),
		DisplayName: "Me",
		CalorieGoal: s.defaultCalorieGoal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO user_prefs (id, display_name, email, calorie_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		prefs.ID,
		prefs.DisplayName,
		prefs.Email,
		prefs.CalorieGoal,
		prefs.CreatedAt,
		prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &prefs, nil
}
