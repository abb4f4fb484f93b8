package meals

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Filter narrows a list query. All fields are optional and combined with
// logical AND; the zero value matches every record.
type Filter struct {
	Category string
	Start    *time.Time
	End      *time.Time
	Favorite *bool
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return f.Category == "" && f.Start == nil && f.End == nil && f.Favorite == nil
}

// Matches applies the filter to a single meal. Both store realizations must
// agree with this predicate; the memory store uses it directly and the
// Postgres store mirrors it in SQL.
func (f Filter) Matches(m *Meal) bool {
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	if f.Start != nil && m.EatenAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && m.EatenAt.After(*f.End) {
		return false
	}
	if f.Favorite != nil && m.IsFavorite != *f.Favorite {
		return false
	}
	return true
}

// ParseFilter builds a Filter from raw query values
// (category, start_date, end_date, favorite).
func ParseFilter(values url.Values) (Filter, error) {
	var f Filter

	if category := strings.TrimSpace(values.Get("category")); category != "" {
		if !IsValidCategory(category) {
			return Filter{}, fmt.Errorf("invalid category %q", category)
		}
		f.Category = category
	}

	if raw := strings.TrimSpace(values.Get("start_date")); raw != "" {
		t, err := ParseTimestamp(raw)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid start_date %q", raw)
		}
		f.Start = &t
	}

	if raw := strings.TrimSpace(values.Get("end_date")); raw != "" {
		t, err := ParseTimestamp(raw)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid end_date %q", raw)
		}
		f.End = &t
	}

	switch raw := strings.TrimSpace(values.Get("favorite")); raw {
	case "":
	case "true":
		v := true
		f.Favorite = &v
	case "false":
		v := false
		f.Favorite = &v
	default:
		return Filter{}, fmt.Errorf("invalid favorite %q", raw)
	}

	return f, nil
}

// DayBounds returns the [00:00:00, 24:00:00) interval of the calendar day
// containing t, in t's location.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1)
	return start, end
}
