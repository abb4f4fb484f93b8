package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HandleExport handles GET /v1/reports/meals?from=YYYY-MM-DD&to=YYYY-MM-DD&format=csv|pdf
func HandleExport(generator *Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := ReportRequest{
			From:   r.URL.Query().Get("from"),
			To:     r.URL.Query().Get("to"),
			Format: r.URL.Query().Get("format"),
		}

		if req.From == "" || req.To == "" || req.Format == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "from, to, and format are required")
			return
		}

		data, contentType, err := generator.Generate(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidFormat):
				writeError(w, http.StatusBadRequest, "invalid_format", err.Error())
			case errors.Is(err, ErrInvalidRange):
				writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
			case errors.Is(err, ErrRangeTooLarge):
				writeError(w, http.StatusBadRequest, "range_too_large", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		filename := fmt.Sprintf("meals_%s_%s.%s", req.From, req.To, req.Format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
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
