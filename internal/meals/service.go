package meals

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMealNotFound  = errors.New("meal not found")
	ErrInvalidFilter = errors.New("invalid filter")
)

// Storage defines the meal store contract. The durable (Postgres) and
// transient (memory) realizations must be behaviorally indistinguishable:
// same sorting, same merge semantics, same not-found signal.
type Storage interface {
	// CreateMeal persists a new meal. ID/CreatedAt/UpdatedAt are assigned
	// by the store when zero.
	CreateMeal(ctx context.Context, meal *Meal) error

	// GetMeal retrieves a meal by ID, or ErrMealNotFound.
	GetMeal(ctx context.Context, id uuid.UUID) (*Meal, error)

	// ListMeals returns meals matching the filter, descending by eaten_at.
	ListMeals(ctx context.Context, filter Filter) ([]Meal, error)

	// ListRange returns meals with start <= eaten_at < end, ascending by
	// eaten_at (chronological reading order for a day's timeline).
	ListRange(ctx context.Context, start, end time.Time) ([]Meal, error)

	// UpdateMeal merges present patch fields onto the stored record and
	// bumps updated_at, or returns ErrMealNotFound.
	UpdateMeal(ctx context.Context, id uuid.UUID, patch MealPatch) (*Meal, error)

	// DeleteMeal removes and returns the record, or ErrMealNotFound.
	DeleteMeal(ctx context.Context, id uuid.UUID) (*Meal, error)
}

// Service handles meal business logic: validation in front of the store,
// plus the filter-error leniency policy.
type Service struct {
	storage Storage

	// failOnFilterError switches the documented leniency policy: when
	// false (the default), a malformed filter is dropped and the
	// unfiltered set is returned; when true the query fails instead.
	failOnFilterError bool
}

// NewService creates a new meal service with the lenient filter policy.
func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// WithFilterErrorPolicy sets the policy applied when a filter fails to parse.
func (s *Service) WithFilterErrorPolicy(fail bool) *Service {
	s.failOnFilterError = fail
	return s
}

// Create validates a creation payload and persists the meal.
func (s *Service) Create(ctx context.Context, req CreateMealRequest) (*MealDTO, error) {
	meal, verr := ValidateCreate(req, time.Now())
	if verr != nil {
		return nil, verr
	}

	if err := s.storage.CreateMeal(ctx, meal); err != nil {
		return nil, err
	}

	dto := meal.ToDTO()
	return &dto, nil
}

// Get returns a meal by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MealDTO, error) {
	meal, err := s.storage.GetMeal(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := meal.ToDTO()
	return &dto, nil
}

// List returns meals matching the raw query values, most recent first.
// A malformed filter is resolved per the configured policy: either the
// filter is dropped entirely and the full set returned, or the query fails
// with ErrInvalidFilter.
func (s *Service) List(ctx context.Context, values url.Values) ([]MealDTO, error) {
	filter, err := ParseFilter(values)
	if err != nil {
		if s.failOnFilterError {
			return nil, errors.Join(ErrInvalidFilter, err)
		}
		log.Printf("WARN meals: ignoring malformed filter: %v", err)
		filter = Filter{}
	}

	result, err := s.storage.ListMeals(ctx, filter)
	if err != nil {
		return nil, err
	}

	return toDTOs(result), nil
}

// Today returns the current local calendar day's meals in chronological order.
func (s *Service) Today(ctx context.Context) ([]MealDTO, error) {
	start, end := DayBounds(time.Now())

	result, err := s.storage.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return toDTOs(result), nil
}

// Range returns meals within [start, end), ascending by eaten_at.
func (s *Service) Range(ctx context.Context, start, end time.Time) ([]MealDTO, error) {
	result, err := s.storage.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return toDTOs(result), nil
}

// Update validates a partial payload and merges it onto the stored record.
// An empty payload still bumps updated_at.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateMealRequest) (*MealDTO, error) {
	patch, verr := ValidateUpdate(req)
	if verr != nil {
		return nil, verr
	}

	meal, err := s.storage.UpdateMeal(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	dto := meal.ToDTO()
	return &dto, nil
}

// Delete removes a meal and returns the removed record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*MealDTO, error) {
	meal, err := s.storage.DeleteMeal(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := meal.ToDTO()
	return &dto, nil
}

// SetImageURL points a meal at its uploaded image.
func (s *Service) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) (*MealDTO, error) {
	patch := MealPatch{ImageURL: &imageURL}

	meal, err := s.storage.UpdateMeal(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	dto := meal.ToDTO()
	return &dto, nil
}

func toDTOs(result []Meal) []MealDTO {
	dtos := make([]MealDTO, len(result))
	for i, m := range result {
		dtos[i] = m.ToDTO()
	}
	return dtos
}
