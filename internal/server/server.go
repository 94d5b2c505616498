// Package server exposes clear-sky detection over a small REST API.
// Requests are synchronous: the mask is computed and returned in the
// response, nothing is persisted.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/chrissnell/clearwatch/pkg/config"
	"github.com/chrissnell/clearwatch/pkg/solar"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server serves the detection API for a configured station.
type Server struct {
	cfg    *config.Config
	model  solar.Model
	logger *zap.SugaredLogger
	router *mux.Router
}

// New creates a Server from the loaded configuration.
func New(cfg *config.Config, logger *zap.SugaredLogger) *Server {
	s := &Server{
		cfg: cfg,
		model: solar.Model{
			Latitude:  cfg.Station.Latitude,
			Longitude: cfg.Station.Longitude,
			Altitude:  cfg.Station.Altitude,
			Turbidity: cfg.Station.Turbidity,
		},
		logger: logger,
		router: mux.NewRouter(),
	}

	s.router.HandleFunc("/api/detect", s.handleDetect).Methods(http.MethodPost)
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	return s
}

// Router returns the HTTP handler for the API.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe runs the HTTP server until the context is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTP.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Infof("detection API listening on %s", s.cfg.HTTP.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]interface{}{
		"status":    "ok",
		"station":   s.cfg.Station.Name,
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("failed to encode response: %v", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		s.logger.Errorw(message, "error", err)
		message = message + ": " + err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
