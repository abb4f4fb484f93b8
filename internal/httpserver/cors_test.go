package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mealdiary/internal/config"
)

func TestCORSAllowedOrigin(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:   []string{"http://localhost:3000"},
		CORSAllowCredentials: true,
	}
	handler := CORSMiddleware(cfg, okHandler())

	req := httptest.NewRequest("GET", "/v1/meals", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allow-origin echoed, got %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials header")
	}
	if w.Header().Get("Vary") != "Origin" {
		t.Error("expected Vary: Origin")
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}}
	handler := CORSMiddleware(cfg, okHandler())

	req := httptest.NewRequest("GET", "/v1/meals", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers for an unknown origin")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected the request itself to pass through, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}}
	handler := CORSMiddleware(cfg, okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/meals", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected allowed methods on preflight")
	}
}
