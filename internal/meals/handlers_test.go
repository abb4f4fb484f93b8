package meals

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"mealdiary/internal/blob"
)

// mockStorage implements Storage for testing
type mockStorage struct {
	meals map[uuid.UUID]Meal
}

func newMockStorage() *mockStorage {
	return &mockStorage{meals: make(map[uuid.UUID]Meal)}
}

func (m *mockStorage) CreateMeal(ctx context.Context, meal *Meal) error {
	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	now := time.Now()
	if meal.CreatedAt.IsZero() {
		meal.CreatedAt = now
	}
	meal.UpdatedAt = now
	m.meals[meal.ID] = *meal
	return nil
}

func (m *mockStorage) GetMeal(ctx context.Context, id uuid.UUID) (*Meal, error) {
	meal, ok := m.meals[id]
	if !ok {
		return nil, ErrMealNotFound
	}
	return &meal, nil
}

func (m *mockStorage) ListMeals(ctx context.Context, filter Filter) ([]Meal, error) {
	var result []Meal
	for _, meal := range m.meals {
		if filter.Matches(&meal) {
			result = append(result, meal)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EatenAt.After(result[j].EatenAt)
	})
	return result, nil
}

func (m *mockStorage) ListRange(ctx context.Context, start, end time.Time) ([]Meal, error) {
	var result []Meal
	for _, meal := range m.meals {
		if !meal.EatenAt.Before(start) && meal.EatenAt.Before(end) {
			result = append(result, meal)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EatenAt.Before(result[j].EatenAt)
	})
	return result, nil
}

func (m *mockStorage) UpdateMeal(ctx context.Context, id uuid.UUID, patch MealPatch) (*Meal, error) {
	meal, ok := m.meals[id]
	if !ok {
		return nil, ErrMealNotFound
	}
	if patch.Name != nil {
		meal.Name = *patch.Name
	}
	if patch.Description != nil {
		meal.Description = *patch.Description
	}
	if patch.Calories != nil {
		meal.Calories = *patch.Calories
	}
	if patch.EatenAt != nil {
		meal.EatenAt = *patch.EatenAt
	}
	if patch.Category != nil {
		meal.Category = *patch.Category
	}
	if patch.IsFavorite != nil {
		meal.IsFavorite = *patch.IsFavorite
	}
	if patch.ImageURL != nil {
		meal.ImageURL = *patch.ImageURL
	}
	meal.UpdatedAt = time.Now()
	m.meals[id] = meal
	return &meal, nil
}

func (m *mockStorage) DeleteMeal(ctx context.Context, id uuid.UUID) (*Meal, error) {
	meal, ok := m.meals[id]
	if !ok {
		return nil, ErrMealNotFound
	}
	delete(m.meals, id)
	return &meal, nil
}

func seedMeal(t *testing.T, storage *mockStorage, name string, calories int, eatenAt time.Time, category string, favorite bool) Meal {
	t.Helper()
	meal := Meal{
		Name:        name,
		Description: name + " description",
		Calories:    calories,
		EatenAt:     eatenAt,
		Category:    category,
		IsFavorite:  favorite,
	}
	if err := storage.CreateMeal(context.Background(), &meal); err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	return meal
}

func TestHandleCreate(t *testing.T) {
	service := NewService(newMockStorage())

	body := `{"name":"Oatmeal","description":"Oats with milk","calories":450,"category":"breakfast"}`
	req := httptest.NewRequest("POST", "/v1/meals", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	HandleCreate(service)(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp MealDTO
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if resp.Calories != 450 || resp.Category != CategoryBreakfast {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.EatenAt.IsZero() {
		t.Error("expected eaten_at to default to now")
	}
}

func TestHandleCreate_ValidationError(t *testing.T) {
	service := NewService(newMockStorage())

	body := `{"name":"ab","description":"abc","calories":0,"category":"brunch"}`
	req := httptest.NewRequest("POST", "/v1/meals", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	HandleCreate(service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "validation_error" {
		t.Errorf("expected code validation_error, got %q", resp.Error.Code)
	}
	if len(resp.Error.Fields) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(resp.Error.Fields), resp.Error.Fields)
	}
}

func TestHandleCreate_InvalidJSON(t *testing.T) {
	service := NewService(newMockStorage())

	req := httptest.NewRequest("POST", "/v1/meals", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()

	HandleCreate(service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestHandleList_SortedDescending(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	seedMeal(t, storage, "Breakfast", 400, base, CategoryBreakfast, false)
	seedMeal(t, storage, "Lunch", 650, base.Add(4*time.Hour), CategoryLunch, false)
	seedMeal(t, storage, "Dinner", 700, base.Add(11*time.Hour), CategoryDinner, false)

	req := httptest.NewRequest("GET", "/v1/meals", nil)
	w := httptest.NewRecorder()

	HandleList(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp MealsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Meals) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(resp.Meals))
	}
	if resp.Meals[0].Name != "Dinner" || resp.Meals[2].Name != "Breakfast" {
		t.Errorf("expected descending order, got %s..%s", resp.Meals[0].Name, resp.Meals[2].Name)
	}
}

func TestHandleList_Filtered(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	seedMeal(t, storage, "Breakfast", 400, base, CategoryBreakfast, true)
	seedMeal(t, storage, "Lunch", 650, base.Add(4*time.Hour), CategoryLunch, false)

	req := httptest.NewRequest("GET", "/v1/meals?favorite=true", nil)
	w := httptest.NewRecorder()

	HandleList(service)(w, req)

	var resp MealsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Meals) != 1 || resp.Meals[0].Name != "Breakfast" {
		t.Errorf("expected only the favorite meal, got %+v", resp.Meals)
	}
}

func TestHandleList_MalformedFilterIgnored(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	seedMeal(t, storage, "Breakfast", 400, base, CategoryBreakfast, false)
	seedMeal(t, storage, "Lunch", 650, base.Add(4*time.Hour), CategoryLunch, false)

	// Default policy drops the whole filter and returns everything.
	req := httptest.NewRequest("GET", "/v1/meals?category=brunch", nil)
	w := httptest.NewRecorder()

	HandleList(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp MealsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Meals) != 2 {
		t.Errorf("expected the unfiltered set of 2 meals, got %d", len(resp.Meals))
	}
}

func TestHandleList_MalformedFilterFailPolicy(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage).WithFilterErrorPolicy(true)

	req := httptest.NewRequest("GET", "/v1/meals?favorite=maybe", nil)
	w := httptest.NewRecorder()

	HandleList(service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "invalid_filter" {
		t.Errorf("expected code invalid_filter, got %q", resp.Error.Code)
	}
}

func TestHandleToday(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)

	now := time.Now()
	start, _ := DayBounds(now)
	seedMeal(t, storage, "Yesterday", 500, start.Add(-2*time.Hour), CategoryDinner, false)
	seedMeal(t, storage, "Late", 300, start.Add(20*time.Hour), CategorySnack, false)
	seedMeal(t, storage, "Early", 400, start.Add(8*time.Hour), CategoryBreakfast, false)

	req := httptest.NewRequest("GET", "/v1/meals/today", nil)
	w := httptest.NewRecorder()

	HandleToday(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp MealsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Meals) != 2 {
		t.Fatalf("expected 2 meals for today, got %d", len(resp.Meals))
	}
	if resp.Meals[0].Name != "Early" || resp.Meals[1].Name != "Late" {
		t.Errorf("expected chronological order, got %s, %s", resp.Meals[0].Name, resp.Meals[1].Name)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	service := NewService(newMockStorage())

	req := httptest.NewRequest("GET", "/v1/meals/"+uuid.NewString(), nil)
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()

	HandleGet(service)(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "meal_not_found" {
		t.Errorf("expected code meal_not_found, got %q", resp.Error.Code)
	}
}

func TestHandleGet_InvalidID(t *testing.T) {
	service := NewService(newMockStorage())

	req := httptest.NewRequest("GET", "/v1/meals/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	HandleGet(service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestHandleUpdate_MergesFields(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)

	meal := seedMeal(t, storage, "Pasta", 700, time.Now(), CategoryDinner, false)

	body := `{"calories":750,"is_favorite":true}`
	req := httptest.NewRequest("PATCH", "/v1/meals/"+meal.ID.String(), bytes.NewBufferString(body))
	req.SetPathValue("id", meal.ID.String())
	w := httptest.NewRecorder()

	HandleUpdate(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MealDTO
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Calories != 750 || !resp.IsFavorite {
		t.Errorf("expected merged update, got %+v", resp)
	}
	if resp.Name != "Pasta" || resp.Category != CategoryDinner {
		t.Errorf("expected untouched fields to survive, got %+v", resp)
	}
}

func TestHandleUpdate_ValidationError(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)

	meal := seedMeal(t, storage, "Pasta", 700, time.Now(), CategoryDinner, false)

	body := `{"calories":-1}`
	req := httptest.NewRequest("PATCH", "/v1/meals/"+meal.ID.String(), bytes.NewBufferString(body))
	req.SetPathValue("id", meal.ID.String())
	w := httptest.NewRecorder()

	HandleUpdate(service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	// The record must be unchanged after a rejected update.
	stored, err := storage.GetMeal(context.Background(), meal.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Calories != 700 {
		t.Errorf("expected calories unchanged, got %d", stored.Calories)
	}
}

func TestHandleDelete_ReturnsRemovedRecord(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)

	meal := seedMeal(t, storage, "Pasta", 700, time.Now(), CategoryDinner, false)

	req := httptest.NewRequest("DELETE", "/v1/meals/"+meal.ID.String(), nil)
	req.SetPathValue("id", meal.ID.String())
	w := httptest.NewRecorder()

	HandleDelete(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp DeleteMealResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Meal.ID != meal.ID || resp.Meal.Name != "Pasta" {
		t.Errorf("expected the removed record in the response, got %+v", resp.Meal)
	}

	if _, err := storage.GetMeal(context.Background(), meal.ID); err != ErrMealNotFound {
		t.Errorf("expected meal to be gone, got %v", err)
	}
}

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)}
	hdr["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	mw.Close()

	return &buf, mw.FormDataContentType()
}

func TestHandleUploadAndGetImage(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)
	images := NewImageService(service, blob.NewLocalStore(), 900, 10, "image/jpeg,image/png")

	meal := seedMeal(t, storage, "Pasta", 700, time.Now(), CategoryDinner, false)

	payload := []byte("fake image bytes")
	body, contentType := multipartImage(t, "file", "pasta.jpg", "image/jpeg", payload)

	req := httptest.NewRequest("POST", "/v1/meals/"+meal.ID.String()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", meal.ID.String())
	w := httptest.NewRecorder()

	HandleUploadImage(images)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MealDTO
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.ImageURL == "" {
		t.Fatal("expected image_url to be set after upload")
	}

	// The local store cannot presign, so the image is served inline.
	getReq := httptest.NewRequest("GET", "/v1/meals/"+meal.ID.String()+"/image", nil)
	getReq.SetPathValue("id", meal.ID.String())
	getW := httptest.NewRecorder()

	HandleGetImage(images)(getW, getReq)

	if getW.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", getW.Code)
	}
	if got := getW.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("expected content type image/jpeg, got %q", got)
	}
	if !bytes.Equal(getW.Body.Bytes(), payload) {
		t.Error("expected the uploaded bytes back")
	}
}

func TestHandleUploadImage_UnsupportedMime(t *testing.T) {
	storage := newMockStorage()
	service := NewService(storage)
	images := NewImageService(service, blob.NewLocalStore(), 900, 10, "image/jpeg")

	meal := seedMeal(t, storage, "Pasta", 700, time.Now(), CategoryDinner, false)

	body, contentType := multipartImage(t, "file", "pasta.gif", "image/gif", []byte("gif"))

	req := httptest.NewRequest("POST", "/v1/meals/"+meal.ID.String()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", meal.ID.String())
	w := httptest.NewRecorder()

	HandleUploadImage(images)(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status 415, got %d", w.Code)
	}
}
