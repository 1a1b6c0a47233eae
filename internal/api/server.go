package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/specindex/internal/config"
	"github.com/dgallion1/specindex/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Server is the HTTP API server for specindex.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	uploads      *rate.Limiter
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
	if cfg.UploadRate > 0 {
		s.uploads = rate.NewLimiter(rate.Limit(cfg.UploadRate), cfg.UploadBurst)
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

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.uploads))
			r.Post("/api/documents", s.handleUpload)
			r.Post("/api/documents/batch", s.handleBatchUpload)
		})

		r.Get("/api/jobs", s.handleListJobs)
		r.Delete("/api/jobs/{jobID}", s.handleDeleteJob)
		r.Get("/api/jobs/{jobID}/status", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/toc", s.handleJobTOC)
		r.Get("/api/jobs/{jobID}/content", s.handleJobContent)
		r.Get("/api/jobs/{jobID}/report", s.handleJobReport)
		r.Get("/api/jobs/{jobID}/summary", s.handleJobSummary)

		r.Get("/api/stats/runs", s.handleRunStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
