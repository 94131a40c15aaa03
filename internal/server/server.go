package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aifsfetch/internal/models"
)

// State tracks what the scheduler daemon is doing. Safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	running bool
	last    *models.BatchReport
	lastErr string
	next    time.Time
}

// Begin marks a batch as running
func (s *State) Begin() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
}

// Finish stores the outcome of the batch started by Begin
func (s *State) Finish(report *models.BatchReport, err error, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.next = next
	if report != nil {
		s.last = report
	}
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
	}
}

// SetNext records the next scheduled activation
func (s *State) SetNext(next time.Time) {
	s.mu.Lock()
	s.next = next
	s.mu.Unlock()
}

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Running   bool                `json:"running"`
	NextRun   *time.Time          `json:"next_run,omitempty"`
	LastError string              `json:"last_error,omitempty"`
	Last      *models.BatchReport `json:"last_report"`
}

func (s *State) snapshot() StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := StatusResponse{
		Running:   s.running,
		LastError: s.lastErr,
		Last:      s.last,
	}
	if !s.next.IsZero() {
		next := s.next
		resp.NextRun = &next
	}
	return resp
}

// Server represents the HTTP server
type Server struct {
	state  *State
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer creates a new HTTP server
func NewServer(state *State, logger *slog.Logger) *Server {
	s := &Server{
		state:  state,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	// Register routes
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth reports liveness with the current UTC time
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus returns the last batch report and the next scheduled run
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, r, s.state.snapshot())
}

// writeJSON encodes v as the response body. Headers are already sent when
// encoding fails, so the error can only be logged.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "path", r.URL.Path, "error", err)
	}
}
