// Package server exposes layout generation, evolution, validation, and run
// history over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/EngineerAnishSharma/SiteArchitect/internal/storage"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/render"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

// Server wires the engine to the HTTP API for one site configuration.
// The store is optional; without it the history endpoints report 404.
type Server struct {
	cfg      *site.Config
	store    *storage.Store
	renderer *render.Renderer
	logger   *log.Logger
	port     int
}

// New creates a server. store may be nil when no database is configured.
func New(cfg *site.Config, store *storage.Store, logger *log.Logger, port int) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		renderer: render.New(cfg),
		logger:   logger,
		port:     port,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/api/config", s.handleConfig)
	r.Post("/api/generate", s.handleGenerate)
	r.Post("/api/evolve", s.handleEvolve)
	r.Post("/api/validate", s.handleValidate)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}", s.handleGetRun)
	r.Get("/api/render/{id}/{idx}.svg", s.handleRenderSVG)

	return r
}

// Start launches the HTTP server and blocks.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("server starting", "addr", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
