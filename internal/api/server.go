// Package api provides the HTTP server: account registration and login,
// device and task CRUD, event queries, and the manual scheduling trigger.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/infra/store"
	"github.com/cs-24-sw-8-04/scheduling/internal/protocol"
)

// Runner triggers scheduling work. The daemon worker implements it: Notify
// feeds the debounced loop on every task or device change, RunNow bypasses
// the debounce for the manual trigger endpoint.
type Runner interface {
	Notify()
	RunNow(algorithm int) error
}

// Server is the HTTP API server.
type Server struct {
	store          *store.Store
	logger         *slog.Logger
	runner         Runner
	metricsEnabled bool
}

// NewServer creates an API server over the given store.
func NewServer(st *store.Store, logger *slog.Logger) *Server {
	return &Server{store: st, logger: logger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetRunner wires the scheduling worker.
func (s *Server) SetRunner(r Runner) { s.runner = r }

// notifyChange tells the worker that the schedulable set changed.
func (s *Server) notifyChange() {
	if s.runner != nil {
		s.runner.Notify()
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(countRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/accounts/register", s.handleRegister)
	r.Post("/accounts/login", s.handleLogin)

	// Everything below requires an auth token.
	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/devices/all", s.handleGetDevices)
		r.Post("/devices/create", s.handleCreateDevice)
		r.Delete("/devices/delete", s.handleDeleteDevice)

		r.Get("/tasks/all", s.handleGetTasks)
		r.Post("/tasks/create", s.handleCreateTask)
		r.Delete("/tasks/delete", s.handleDeleteTask)

		r.Get("/events/all", s.handleGetEvents)
		r.Get("/events/get", s.handleGetDeviceEvents)

		r.Post("/scheduling/run", s.handleRunScheduler)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, protocol.ErrorResponse{Error: msg})
}

// storeError maps store-layer failures onto HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrWrongCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
