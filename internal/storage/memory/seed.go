package memory

import (
	"context"
	"time"

	"mealdiary/internal/meals"
)

// SeedSampleData loads a few example meals for today. Meant for local
// development against the memory store so the UI has something to show.
func (m *MemoryStorage) SeedSampleData(ctx context.Context) error {
	now := time.Now()
	day := func(hour, min int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	}

	samples := []meals.Meal{
		{
			Name:        "Oatmeal with banana",
			Description: "Rolled oats cooked in milk with a sliced banana",
			Calories:    450,
			EatenAt:     day(8, 0),
			Category:    meals.CategoryBreakfast,
			IsFavorite:  true,
		},
		{
			Name:        "Grilled chicken with rice",
			Description: "Chicken breast, white rice and steamed broccoli",
			Calories:    680,
			EatenAt:     day(12, 30),
			Category:    meals.CategoryLunch,
		},
		{
			Name:        "Greek yogurt",
			Description: "Plain yogurt with a handful of walnuts",
			Calories:    320,
			EatenAt:     day(16, 0),
			Category:    meals.CategorySnack,
		},
	}

	for i := range samples {
		if err := m.CreateMeal(ctx, &samples[i]); err != nil {
			return err
		}
	}

	return nil
}
