// Package mockapi is an in-memory stand-in for the CQE backend. It serves
// the same routes and response shapes so the client can be developed and
// tested without the real service.
package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Options tunes a Server.
type Options struct {
	// Latency is added before every response.
	Latency time.Duration
	Logger  *zap.Logger
}

// Server is the mock backend.
type Server struct {
	data   *data
	opts   Options
	logger *zap.Logger
}

// New creates a server preloaded with seed projects, releases and the demo
// account.
func New(opts Options) *Server {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{data: seed(), opts: opts, logger: l}
}

// ImportCount reports how many requirement imports were accepted.
func (s *Server) ImportCount() int { return s.data.importCount() }

// Router builds the chi router with every route mounted under /api.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recovery(s.logger))
	if s.opts.Latency > 0 {
		r.Use(Latency(s.opts.Latency))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
			r.Post("/validate-zephyr-token", s.handleValidateZephyrToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.data.authorized))

			r.Get("/projects/user/{userID}", s.handleUserProjects)
			r.Get("/releases/by-project/{projectID}", s.handleReleasesByProject)

			r.Route("/zephyr", func(r chi.Router) {
				r.Post("/create-release", s.handleCreateRelease)
				r.Post("/import-requirements", s.handleImportRequirements)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/zephyr-stats/{projectID}/{releaseID}", s.handleZephyrStats)
				r.Get("/jira-stats/{projectID}/{releaseID}", s.handleJiraStats)
			})
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError uses the backend's {"detail": "..."} error shape.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
