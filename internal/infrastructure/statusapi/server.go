// Package statusapi exposes a small read-only chi router over a
// simulation run's recorded reputation and sweep state.
package statusapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/execution-hub/witnessrep/internal/application/simulate"
	"github.com/execution-hub/witnessrep/internal/domain/reputation"
)

// RunRegistry is read by the status API; the cmd/witnessrep driver fills it
// in as runs and sweeps complete.
type RunRegistry struct {
	Runs   map[string]*reputation.Map
	Sweeps map[string][]simulate.StepResult
}

// NewRunRegistry builds an empty RunRegistry.
func NewRunRegistry() *RunRegistry {
	return &RunRegistry{Runs: make(map[string]*reputation.Map), Sweeps: make(map[string][]simulate.StepResult)}
}

// Server serves the introspection API over a RunRegistry.
type Server struct {
	registry *RunRegistry
}

// NewServer builds a Server over registry.
func NewServer(registry *RunRegistry) *Server {
	return &Server{registry: registry}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/runs", s.listRuns)
		r.Get("/runs/{runID}/reputation", s.getRunReputation)
		r.Get("/sweeps/{sweepID}", s.getSweep)
	})
	return r
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0, len(s.registry.Runs))
	for id := range s.registry.Runs {
		ids = append(ids, id)
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) getRunReputation(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	m, ok := s.registry.Runs[runID]
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m.Entries())
}

func (s *Server) getSweep(w http.ResponseWriter, r *http.Request) {
	sweepID := chi.URLParam(r, "sweepID")
	results, ok := s.registry.Sweeps[sweepID]
	if !ok {
		http.Error(w, "sweep not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
