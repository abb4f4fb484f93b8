package summary

import (
	"context"
	"errors"
	"math"
	"time"

	"mealdiary/internal/meals"
	"mealdiary/internal/prefs"
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Service computes daily intake summaries.
type Service struct {
	meals *meals.Service
	prefs *prefs.Service
}

// NewService creates a new summary service.
func NewService(mealsService *meals.Service, prefsService *prefs.Service) *Service {
	return &Service{meals: mealsService, prefs: prefsService}
}

// Daily aggregates the given local calendar day. An empty date means today.
func (s *Service) Daily(ctx context.Context, date string) (*DailySummary, error) {
	day := time.Now()
	if date != "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, ErrInvalidDate
		}
		day = t
	}

	start, end := meals.DayBounds(day)

	dayMeals, err := s.meals.Range(ctx, start, end)
	if err != nil {
		return nil, err
	}

	preferences, err := s.prefs.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := Compute(dayMeals, preferences.CalorieGoal)
	result.Date = start.Format("2006-01-02")

	return result, nil
}

// Compute aggregates a day's meals against a calorie goal. A zero or
// negative goal yields the within band with zero percent, rather than a
// division blowup.
func Compute(dayMeals []meals.MealDTO, goal int) *DailySummary {
	total := 0
	byCategory := map[string]CategoryBreakdown{}
	for _, c := range meals.ValidCategories {
		byCategory[c] = CategoryBreakdown{}
	}
	for _, m := range dayMeals {
		total += m.Calories
		b := byCategory[m.Category]
		b.Count++
		b.Calories += m.Calories
		byCategory[m.Category] = b
	}

	percent := 0
	status := StatusWithin
	if goal > 0 {
		ratio := float64(total) / float64(goal)
		percent = int(math.Round(ratio * 100))
		switch {
		case ratio < 0.5:
			status = StatusBelow
		case ratio > 1.25:
			status = StatusAbove
		}
		if percent > 100 {
			percent = 100
		}
	}

	return &DailySummary{
		TotalCalories: total,
		CalorieGoal:   goal,
		Percent:       percent,
		Status:        status,
		MealCount:     len(dayMeals),
		ByCategory:    byCategory,
	}
}
