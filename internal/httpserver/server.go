package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"mealdiary/internal/blob"
	"mealdiary/internal/config"
	"mealdiary/internal/meals"
	"mealdiary/internal/prefs"
	"mealdiary/internal/reports"
	"mealdiary/internal/storage"
	"mealdiary/internal/storage/fallback"
	"mealdiary/internal/storage/memory"
	"mealdiary/internal/storage/postgres"
	"mealdiary/internal/summary"
)

// Server wires storage, services, and routes together.
type Server struct {
	config  *config.Config
	mux     *http.ServeMux
	storage storage.Store
}

// New creates a new HTTP server.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage picks the store: Postgres with a memory standby when a
// database is configured and reachable, plain memory otherwise.
func (s *Server) initStorage() {
	standby := memory.New(s.config.DefaultCalorieGoal)

	if s.config.SeedSampleData {
		if err := standby.SeedSampleData(context.Background()); err != nil {
			log.Printf("WARN storage: sample data seed failed: %v", err)
		} else {
			log.Println("INFO storage: sample data seeded into memory store")
		}
	}

	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: no DATABASE_URL, using in-memory store")
		s.storage = standby
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL...")
	ctx := context.Background()
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL, s.config.DefaultCalorieGoal)
	if err != nil {
		log.Printf("WARN storage: PostgreSQL connection failed: %v", err)
		log.Println("WARN storage: falling back to in-memory store")
		s.storage = standby
		return
	}

	log.Println("INFO storage: PostgreSQL connected")
	timeout := time.Duration(s.config.QueryTimeoutSeconds) * time.Second
	s.storage = fallback.New(pgStorage, standby, timeout)
}

// routes registers all endpoints.
func (s *Server) routes() {
	// Health check
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Meals API
	mealsService := meals.NewService(s.storage).
		WithFilterErrorPolicy(s.config.FilterErrorPolicy == config.FilterPolicyFail)

	s.mux.HandleFunc("POST /v1/meals", meals.HandleCreate(mealsService))
	s.mux.HandleFunc("GET /v1/meals", meals.HandleList(mealsService))
	s.mux.HandleFunc("GET /v1/meals/today", meals.HandleToday(mealsService))
	s.mux.HandleFunc("GET /v1/meals/{id}", meals.HandleGet(mealsService))
	s.mux.HandleFunc("PATCH /v1/meals/{id}", meals.HandleUpdate(mealsService))
	s.mux.HandleFunc("PUT /v1/meals/{id}", meals.HandleUpdate(mealsService))
	s.mux.HandleFunc("DELETE /v1/meals/{id}", meals.HandleDelete(mealsService))

	// Meal images
	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize store: %v", err)
	}
	log.Printf("INFO blob: mode=%s", blobMode)

	imageService := meals.NewImageService(
		mealsService,
		blobStore,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.UploadMaxMB,
		s.config.UploadAllowedMime,
	)
	s.mux.HandleFunc("POST /v1/meals/{id}/image", meals.HandleUploadImage(imageService))
	s.mux.HandleFunc("GET /v1/meals/{id}/image", meals.HandleGetImage(imageService))

	// Preferences API
	prefsService := prefs.NewService(s.storage)
	s.mux.HandleFunc("GET /v1/preferences", prefs.HandleGet(prefsService))
	s.mux.HandleFunc("PATCH /v1/preferences", prefs.HandleUpdate(prefsService))
	s.mux.HandleFunc("PUT /v1/preferences", prefs.HandleUpdate(prefsService))

	// Summary API
	summaryService := summary.NewService(mealsService, prefsService)
	s.mux.HandleFunc("GET /v1/summary/daily", summary.HandleDaily(summaryService))

	// Reports API
	reportsGenerator := reports.NewGenerator(mealsService, prefsService, s.config.ReportsMaxRangeDays)
	s.mux.HandleFunc("GET /v1/reports/meals", reports.HandleExport(reportsGenerator))
}

// handleHealthz reports server liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the full middleware chain (outermost first):
// CORS, rate limit, router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Meals API: http://localhost%s/v1/meals\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases the storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
