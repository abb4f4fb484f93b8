package memory

import (
	"context"
	"testing"

	"mealdiary/internal/storage"
)

func TestGetPreferences_LazyDefaults(t *testing.T) {
	s := New(1800)

	prefs, err := s.GetPreferences(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefs.DisplayName != "Me" {
		t.Errorf("expected default display name, got %q", prefs.DisplayName)
	}
	if prefs.CalorieGoal != 1800 {
		t.Errorf("expected default goal 1800, got %d", prefs.CalorieGoal)
	}

	// A second read returns the same row.
	again, err := s.GetPreferences(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != prefs.ID {
		t.Error("expected the same singleton row on repeated reads")
	}
}

func TestUpdatePreferences_Merges(t *testing.T) {
	s := New(2000)
	ctx := context.Background()

	goal := 2500
	updated, err := s.UpdatePreferences(ctx, storage.PreferencesPatch{CalorieGoal: &goal})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.CalorieGoal != 2500 {
		t.Errorf("expected goal 2500, got %d", updated.CalorieGoal)
	}
	if updated.DisplayName != "Me" {
		t.Errorf("expected display name untouched, got %q", updated.DisplayName)
	}

	name := "Alex"
	updated, err = s.UpdatePreferences(ctx, storage.PreferencesPatch{DisplayName: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DisplayName != "Alex" || updated.CalorieGoal != 2500 {
		t.Errorf("expected merged prefs, got %+v", updated)
	}
}
