package prefs

import (
	"time"

	"github.com/google/uuid"
)

// PreferencesDTO is the API response format for user preferences.
type PreferencesDTO struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	CalorieGoal int       `json:"calorie_goal"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdatePreferencesRequest is the request body for a partial preferences
// update. Absent fields leave the stored value unchanged.
type UpdatePreferencesRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	CalorieGoal *int    `json:"calorie_goal,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
