// Package simd hosts the daemon-facing surfaces of the simulator: the
// status HTTP server and the wiring between engine, config library and
// telemetry sinks.
package simd

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aloft-io/aloft/internal/sim"
	"github.com/aloft-io/aloft/internal/sim/config"
	"github.com/aloft-io/aloft/pkg/log"
	"github.com/aloft-io/aloft/pkg/options"
)

// Server is the read-only status API of a running simulator: health and
// readiness probes, Prometheus metrics, the live vehicle state and the
// mission library.
type Server struct {
	server   *http.Server
	log      log.Logger
	ctrl     *sim.Controller
	provider config.Provider
}

// NewServer builds the status server around a controller and its mission
// library.
func NewServer(opts *options.HttpOptions, ctrl *sim.Controller, provider config.Provider, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Server{
		log:      logger.WithName("http"),
		ctrl:     ctrl,
		provider: provider,
	}

	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/missions", s.handleMissions).Methods(http.MethodGet)
	api.HandleFunc("/missions/{id}", s.handleMission).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:    opts.Addr,
		Handler: router,
	}
	return s
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// handleState returns the most recent telemetry snapshot, or 204 when no
// mission has produced one yet.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.ctrl.LastTelemetry()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, snap)
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	infos, err := s.provider.ListMissions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, infos)
}

func (s *Server) handleMission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	mission, err := s.provider.LoadMission(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, mission)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(err, "Failed to encode response")
	}
}
