package summary

// Goal status bands for a day's intake relative to the calorie goal.
const (
	StatusBelow  = "below"  // under 50% of the goal
	StatusWithin = "within" // 50% to 125% of the goal
	StatusAbove  = "above"  // over 125% of the goal
)

// CategoryBreakdown is the per-category slice of a day's intake.
type CategoryBreakdown struct {
	Count    int `json:"count"`
	Calories int `json:"calories"`
}

// DailySummary aggregates one calendar day of meals against the calorie goal.
// Percent is capped at 100 for display; Status is derived from the uncapped
// ratio. ByCategory always carries all four categories, zeroed when empty.
type DailySummary struct {
	Date          string                       `json:"date"` // YYYY-MM-DD
	TotalCalories int                          `json:"total_calories"`
	CalorieGoal   int                          `json:"calorie_goal"`
	Percent       int                          `json:"percent"`
	Status        string                       `json:"status"`
	MealCount     int                          `json:"meal_count"`
	ByCategory    map[string]CategoryBreakdown `json:"by_category"`
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
