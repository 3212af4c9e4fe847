// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, session orchestration,
// output serialization. The API NEVER performs estimating math.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/7mit3/BidFix-sub000/core/catalog"
	"github.com/7mit3/BidFix-sub000/core/penetration"
	"github.com/7mit3/BidFix-sub000/db"
	"github.com/7mit3/BidFix-sub000/internal/errors"
	"github.com/7mit3/BidFix-sub000/internal/logging"
)

// Server is the API server
type Server struct {
	router  chi.Router
	log     *zap.Logger
	version string

	cat   *catalog.Catalog
	pens  *penetration.Registry
	store *db.Store
}

// NewServer creates a new API server (without price database)
func NewServer(version string) *Server {
	return NewServerWithStore(version, nil)
}

// NewServerWithStore creates a new API server backed by a price
// database. A nil store serves catalog defaults and disables the
// price and estimate persistence endpoints.
func NewServerWithStore(version string, store *db.Store) *Server {
	catalog.Init()
	penetration.Init()

	s := &Server{
		router:  chi.NewRouter(),
		log:     logging.Named("api"),
		version: version,
		cat:     catalog.GlobalCatalog,
		pens:    penetration.Default(),
		store:   store,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(s.requestLogger)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Core endpoint
		r.Post("/estimate", s.handleEstimate)

		// Catalog
		r.Get("/systems", s.handleListSystems)
		r.Get("/systems/{system}/catalog", s.handleCatalog)

		// Persisted price overrides
		r.Get("/systems/{system}/prices", s.handleListPrices)
		r.Put("/systems/{system}/prices/{productID}", s.handleSetPrice)
		r.Delete("/systems/{system}/prices/{productID}", s.handleDeletePrice)
		r.Delete("/systems/{system}/prices", s.handleClearPrices)

		// Saved estimates
		r.Post("/estimates", s.handleSaveEstimate)
		r.Post("/estimates/diff", s.handleDiffEstimates)
		r.Get("/estimates", s.handleListEstimates)
		r.Get("/estimates/{id}", s.handleGetEstimate)
		r.Delete("/estimates/{id}", s.handleDeleteEstimate)
		r.Post("/estimates/{id}/export", s.handleExportEstimate)
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "bidfix",
		"api_version": "v1",
	}, http.StatusOK)
}

// requestLogger logs one line per request
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	}, status)
}

// fail maps a taxonomy error onto the HTTP status contract: bad input
// 400, unknown resources 404, records that fail validation 422,
// storage trouble 503, everything else 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(errors.TypeInternal)

	if e, ok := err.(*errors.Error); ok {
		code = string(e.Type)
		switch e.Type {
		case errors.TypeInput, errors.TypeParsing:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		case errors.TypeFormat:
			status = http.StatusUnprocessableEntity
		case errors.TypeStorage:
			status = http.StatusServiceUnavailable
		}
	}
	s.writeError(w, code, err.Error(), status)
}

// requireStore guards endpoints that need the price database
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, string(errors.TypeStorage), "price database not connected",
			http.StatusServiceUnavailable)
		return false
	}
	return true
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}

func generateRequestID() string {
	return fmt.Sprintf("est-%d", time.Now().UnixNano())
}
