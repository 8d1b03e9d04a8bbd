// Package httpadapter exposes the service's HTTP surface: liveness,
// Prometheus metrics, and the detection-run trigger.
package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ush214/project-guardian/internal/pipeline"
)

// Runner executes one full detection pass.
type Runner interface {
	Run(ctx context.Context) (pipeline.RunStats, error)
}

// Server exposes health, metrics, and trigger HTTP endpoints.
type Server struct {
	httpServer *http.Server
	runner     Runner
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /metrics, and POST /run
// routes.
func NewServer(addr string, runner Runner, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Write timeout must cover a whole detection run; imagery
			// queries alone can take a minute per wreck.
			WriteTimeout: 15 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		runner: runner,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	// Liveness only: never touches the imagery platform or the store.
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// runResponse is the trigger endpoint's reply shape.
type runResponse struct {
	OK       bool    `json:"ok"`
	ElapsedS float64 `json:"elapsed_s,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	stats, err := s.runner.Run(r.Context())
	if err != nil {
		s.logger.Error("detection run failed", "error", err,
			"wrecks_scanned", stats.WrecksScanned,
			"events_written", stats.EventsWritten,
		)
		writeJSON(w, http.StatusInternalServerError, runResponse{OK: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runResponse{OK: true, ElapsedS: roundSeconds(stats.Elapsed)})
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
