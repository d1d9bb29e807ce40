package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"garage/internal/inventory"
	"garage/internal/logging"
)

// Server exposes the inventory service over a JSON HTTP API.
type Server struct {
	bind   string
	logger *slog.Logger
	svc    *inventory.Service

	listener net.Listener
	server   *http.Server
}

// New constructs a server bound to the given address.
func New(bind string, svc *inventory.Service, logger *slog.Logger) *Server {
	s := &Server{
		bind:   strings.TrimSpace(bind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		svc:    svc,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/collect", s.handleCollect)
	mux.HandleFunc("/api/collect/bulk", s.handleCollectBulk)
	mux.HandleFunc("/api/collection", s.handleCollection)
	mux.HandleFunc("/api/collection.json", s.handleCollectionJSON)
	mux.HandleFunc("/api/missing", s.handleMissing)
	mux.HandleFunc("/api/progress", s.handleProgress)
	mux.HandleFunc("/api/toys/", s.handleToyInfo)
	mux.HandleFunc("/api/adjust", s.handleAdjust)
	mux.HandleFunc("/api/delete", s.handleDelete)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/admin/reload", s.handleReload)
	mux.HandleFunc("/api/admin/cache", s.handleCacheStatus)

	s.server = &http.Server{
		Handler:           s.withAccessLog(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins serving and returns once the listener is bound. The server
// shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address, useful when binding to port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		s.logger.Debug("handled request",
			logging.String("request_id", requestID),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"status": "error", "reason": message})
}

// writeServiceError maps business failures to structured 4xx payloads and
// infrastructure failures to a 5xx.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if inventory.IsClientError(err) {
		status := http.StatusBadRequest
		if errors.Is(err, inventory.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.logger.Error("request failed", logging.Error(err))
	s.writeError(w, http.StatusInternalServerError, err.Error())
}
