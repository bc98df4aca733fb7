// Package server exposes businesses and their analyses over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"growth-hub/models"
	"growth-hub/services"
	"growth-hub/storage"
	"growth-hub/utils"
)

// Store is the persistence the API reads from.
type Store interface {
	storage.BusinessStore
	storage.AnalysisStore
}

// Analyses starts background analysis runs and reports on them.
type Analyses interface {
	Start(b models.Business) uuid.UUID
	Status(runID uuid.UUID) (services.RunState, bool)
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// New creates the HTTP server listening on addr.
func New(addr string, store Store, analyses Analyses, logger *utils.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	h := &handler{store: store, analyses: analyses, logger: logger}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Group(func(r chi.Router) {
			r.Use(requireOwner)

			r.Post("/businesses", h.createBusiness)
			r.Get("/businesses", h.listBusinesses)
			r.Get("/analyses/{runID}", h.getAnalysis)
			r.Get("/analytics/platforms/{businessID}", h.getPlatformAnalytics)
			r.Get("/insights/{businessID}", h.getInsights)
			r.Get("/dashboard/{businessID}", h.getDashboard)
		})
	})

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 75 * time.Second,
		},
		router: router,
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
