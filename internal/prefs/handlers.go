package prefs

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HandleGet handles GET /v1/preferences
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs, err := service.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(prefs)
	}
}

// HandleUpdate handles PATCH /v1/preferences
func HandleUpdate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePreferencesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		prefs, err := service.Update(r.Context(), req)
		if err != nil {
			if errors.Is(err, ErrInvalidDisplayName) {
				writeError(w, http.StatusBadRequest, "invalid_display_name", err.Error())
				return
			}
			if errors.Is(err, ErrInvalidEmail) {
				writeError(w, http.StatusBadRequest, "invalid_email", err.Error())
				return
			}
			if errors.Is(err, ErrInvalidCalorieGoal) {
				writeError(w, http.StatusBadRequest, "invalid_calorie_goal", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(prefs)
	}
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
