package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/prepbook/internal/config"
	"github.com/dgallion1/prepbook/internal/pipeline"
)

// Server is the HTTP API server for prepbook.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Route("/api/reformat", func(r chi.Router) {
			r.Post("/", s.handleReformat)
			r.Get("/", s.handleListJobs)
			r.Post("/batch", s.handleBatchReformat)
			r.Get("/{jobID}/status", s.handleReformatStatus)
			r.Get("/{jobID}/result", s.handleReformatResult)
			r.Get("/{jobID}/mcqs", s.handleReformatMCQs)
			r.Delete("/{jobID}", s.handleDeleteJob)
		})

		r.Route("/api/math", func(r chi.Router) {
			r.Post("/convert", s.handleConvert)
			r.Post("/detect", s.handleDetect)
			r.Post("/replace", s.handleReplace)
			r.Post("/replace/file", s.handleReplaceFile)
		})

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
