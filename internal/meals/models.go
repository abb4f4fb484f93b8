package meals

import (
	"time"

	"github.com/google/uuid"
)

// Meal categories
const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategorySnack     = "snack"
	CategoryDinner    = "dinner"
)

// ValidCategories lists the four fixed meal categories in display order.
var ValidCategories = []string{CategoryBreakfast, CategoryLunch, CategorySnack, CategoryDinner}

// Field length minimums
const (
	MinNameLen        = 3
	MinDescriptionLen = 5
)

// Meal represents a single logged meal entry.
type Meal struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	EatenAt     time.Time `json:"eaten_at"`
	Category    string    `json:"category"`
	IsFavorite  bool      `json:"is_favorite"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MealDTO is the API response format.
type MealDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	EatenAt     time.Time `json:"eaten_at"`
	Category    string    `json:"category"`
	IsFavorite  bool      `json:"is_favorite"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToDTO converts Meal to MealDTO.
func (m *Meal) ToDTO() MealDTO {
	return MealDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Calories:    m.Calories,
		EatenAt:     m.EatenAt,
		Category:    m.Category,
		IsFavorite:  m.IsFavorite,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CreateMealRequest is the request body for creating a meal.
// EatenAt is optional and defaults to the current time.
type CreateMealRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Calories    *int   `json:"calories"`
	EatenAt     string `json:"eaten_at,omitempty"`
	Category    string `json:"category"`
	IsFavorite  *bool  `json:"is_favorite,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// UpdateMealRequest is the request body for a partial update.
// Absent fields leave the stored value unchanged.
type UpdateMealRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Calories    *int    `json:"calories,omitempty"`
	EatenAt     *string `json:"eaten_at,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsFavorite  *bool   `json:"is_favorite,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// MealPatch carries validated, typed values for a partial update.
// Nil fields are not applied.
type MealPatch struct {
	Name        *string
	Description *string
	Calories    *int
	EatenAt     *time.Time
	Category    *string
	IsFavorite  *bool
	ImageURL    *string
}

// MealsResponse is the response for list endpoints.
type MealsResponse struct {
	Meals []MealDTO `json:"meals"`
}

// DeleteMealResponse returns the removed record.
type DeleteMealResponse struct {
	Message string  `json:"message"`
	Meal    MealDTO `json:"meal"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code, message and optional per-field detail.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// IsValidCategory reports whether c is one of the four fixed categories.
func IsValidCategory(c string) bool {
	for _, valid := range ValidCategories {
		if c == valid {
			return true
		}
	}
	return false
}
