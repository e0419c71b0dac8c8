// Package api serves the monitor's read-only status surface: unit state,
// overall health, resource history and Prometheus metrics. It never
// mutates anything; all writes stay on the cycle loop.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/metrics"
	"github.com/premonitor/premonitor/pkg/models"
	"github.com/premonitor/premonitor/pkg/monitor"
	"github.com/premonitor/premonitor/pkg/resource"
)

// Server exposes one monitor instance over HTTP.
type Server struct {
	monitor  *monitor.Monitor
	governor *resource.Governor
	metrics  *metrics.Metrics
	router   *mux.Router
	logger   *zap.Logger
}

func NewServer(m *monitor.Monitor, governor *resource.Governor, mets *metrics.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		monitor:  m,
		governor: governor,
		metrics:  mets,
		router:   mux.NewRouter(),
		logger:   logger,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/status", s.getStatus).Methods("GET")
	s.router.HandleFunc("/api/units", s.getUnits).Methods("GET")
	s.router.HandleFunc("/api/units/{id}", s.getUnit).Methods("GET")
	s.router.HandleFunc("/api/resources", s.getResources).Methods("GET")
	s.router.HandleFunc("/healthz", s.getHealth).Methods("GET")

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}
}

// Router returns the configured handler for embedding into an HTTP
// server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.monitor.Snapshot())
}

func (s *Server) getUnits(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.monitor.Snapshot().Units)
}

func (s *Server) getUnit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	unit, err := s.monitor.UnitStatus(vars["id"])
	if err != nil {
		http.Error(w, "Unit not found", http.StatusNotFound)
		return
	}

	s.writeJSON(w, unit)
}

type resourcesResponse struct {
	Stats   resource.Stats          `json:"stats"`
	History []models.ResourceSample `json:"history"`
}

func (s *Server) getResources(w http.ResponseWriter, _ *http.Request) {
	if s.governor == nil {
		http.Error(w, "Resource governor not enabled", http.StatusNotFound)
		return
	}

	s.writeJSON(w, resourcesResponse{
		Stats:   s.governor.Stats(),
		History: s.governor.History(),
	})
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
