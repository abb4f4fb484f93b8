package meals

import (
	"strings"
	"time"
	"unicode/utf8"
)

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field for one payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Timestamp formats accepted on input. RFC3339 first, date-only as a
// convenience for filters and manual entry.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a point in time from its wire representation.
// Layouts without a zone are interpreted in local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			} else {
				lastErr = err
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ValidateCreate checks a creation payload and returns the typed meal values,
// or a ValidationError enumerating every violated field.
// EatenAt defaults to now when absent.
func ValidateCreate(req CreateMealRequest, now time.Time) (*Meal, *ValidationError) {
	var fields []FieldError

	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) < MinNameLen {
		fields = append(fields, FieldError{Field: "name", Message: "name must be at least 3 characters"})
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Description)) < MinDescriptionLen {
		fields = append(fields, FieldError{Field: "description", Message: "description must be at least 5 characters"})
	}

	if req.Calories == nil {
		fields = append(fields, FieldError{Field: "calories", Message: "calories is required"})
	} else if *req.Calories < 1 {
		fields = append(fields, FieldError{Field: "calories", Message: "calories must be greater than zero"})
	}

	eatenAt := now
	if strings.TrimSpace(req.EatenAt) != "" {
		t, err := ParseTimestamp(req.EatenAt)
		if err != nil {
			fields = append(fields, FieldError{Field: "eaten_at", Message: "eaten_at is not a valid timestamp"})
		} else {
			eatenAt = t
		}
	}

	if !IsValidCategory(req.Category) {
		fields = append(fields, FieldError{Field: "category", Message: "category must be one of breakfast, lunch, snack, dinner"})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	isFavorite := false
	if req.IsFavorite != nil {
		isFavorite = *req.IsFavorite
	}

	return &Meal{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Calories:    *req.Calories,
		EatenAt:     eatenAt,
		Category:    req.Category,
		IsFavorite:  isFavorite,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}, nil
}

// ValidateUpdate checks a partial update payload. Every field is optional,
// but present fields must satisfy the same per-field rules as creation.
func ValidateUpdate(req UpdateMealRequest) (MealPatch, *ValidationError) {
	var fields []FieldError
	var patch MealPatch

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if utf8.RuneCountInString(name) < MinNameLen {
			fields = append(fields, FieldError{Field: "name", Message: "name must be at least 3 characters"})
		} else {
			patch.Name = &name
		}
	}

	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if utf8.RuneCountInString(desc) < MinDescriptionLen {
			fields = append(fields, FieldError{Field: "description", Message: "description must be at least 5 characters"})
		} else {
			patch.Description = &desc
		}
	}

	if req.Calories != nil {
		if *req.Calories < 1 {
			fields = append(fields, FieldError{Field: "calories", Message: "calories must be greater than zero"})
		} else {
			patch.Calories = req.Calories
		}
	}

	if req.EatenAt != nil {
		t, err := ParseTimestamp(*req.EatenAt)
		if err != nil {
			fields = append(fields, FieldError{Field: "eaten_at", Message: "eaten_at is not a valid timestamp"})
		} else {
			patch.EatenAt = &t
		}
	}

	if req.Category != nil {
		if !IsValidCategory(*req.Category) {
			fields = append(fields, FieldError{Field: "category", Message: "category must be one of breakfast, lunch, snack, dinner"})
		} else {
			patch.Category = req.Category
		}
	}

	if req.IsFavorite != nil {
		patch.IsFavorite = req.IsFavorite
	}

	if req.ImageURL != nil {
		url := strings.TrimSpace(*req.ImageURL)
		patch.ImageURL = &url
	}

	if len(fields) > 0 {
		return MealPatch{}, &ValidationError{Fields: fields}
	}

	return patch, nil
}
