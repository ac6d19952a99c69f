package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mdowning/batchkb/internal/config"
	"github.com/mdowning/batchkb/internal/orchestrator"
)

// Server is the HTTP API server for batchkb.
type Server struct {
	router chi.Router
	orch   *orchestrator.Orchestrator
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *orchestrator.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orch: orch,
		log:  log,
		cfg:  cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Route("/batch", func(r chi.Router) {
		r.Post("/", s.handleSubmit)
		r.Get("/dedup-stats", s.handleDedupStats)
		r.Get("/{taskID}", s.handleStatus)
		r.Get("/{taskID}/download/{category}", s.handleDownload)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
