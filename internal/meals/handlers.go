package meals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// HandleCreate handles POST /v1/meals
func HandleCreate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		meal, err := service.Create(r.Context(), req)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeValidationError(w, verr)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(meal)
	}
}

// HandleList handles GET /v1/meals?category=&start_date=&end_date=&favorite=
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.List(r.Context(), r.URL.Query())
		if err != nil {
			if errors.Is(err, ErrInvalidFilter) {
				writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MealsResponse{Meals: result})
	}
}

// HandleToday handles GET /v1/meals/today
func HandleToday(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.Today(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MealsResponse{Meals: result})
	}
}

// HandleGet handles GET /v1/meals/{id}
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseMealID(w, r)
		if !ok {
			return
		}

		meal, err := service.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrMealNotFound) {
				writeError(w, http.StatusNotFound, "meal_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(meal)
	}
}

// HandleUpdate handles PATCH /v1/meals/{id}
func HandleUpdate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseMealID(w, r)
		if !ok {
			return
		}

		var req UpdateMealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		meal, err := service.Update(r.Context(), id, req)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeValidationError(w, verr)
				return
			}
			if errors.Is(err, ErrMealNotFound) {
				writeError(w, http.StatusNotFound, "meal_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(meal)
	}
}

// HandleDelete handles DELETE /v1/meals/{id}. The removed record is returned
// so clients can offer an undo.
func HandleDelete(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseMealID(w, r)
		if !ok {
			return
		}

		meal, err := service.Delete(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrMealNotFound) {
				writeError(w, http.StatusNotFound, "meal_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteMealResponse{
			Message: "meal deleted",
			Meal:    *meal,
		})
	}
}

func parseMealID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "missing_id", "meal id is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid meal id format")
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func writeValidationError(w http.ResponseWriter, verr *ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    "validation_error",
			Message: verr.Error(),
			Fields:  verr.Fields,
		},
	})
}
