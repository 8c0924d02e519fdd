package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"golang.org/x/net/netutil"

	"github.com/nao1215/missioncontrol/internal/config"
	"github.com/nao1215/missioncontrol/internal/model"
	"github.com/nao1215/missioncontrol/internal/pipeline"
)

// Server serves the intake pipeline over HTTP.
type Server struct {
	// cfg holds listen address, timeouts and limits.
	cfg *config.Config

	// logger is used for request and lifecycle logging.
	logger *slog.Logger

	// journal, when set, receives every finished report.
	journal pipeline.Journal

	// pipeline is built once; Execute does not mutate it.
	pipeline *pipeline.Pipeline

	// metrics is exposed on GET /metrics.
	metrics *metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithJournal appends a journal step to the intake pipeline.
// Journal failures are logged and do not change the response.
func WithJournal(journal pipeline.Journal) Option {
	return func(s *Server) {
		s.journal = journal
	}
}

// New creates a Server from cfg.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  slog.Default(),
		metrics: newMetrics(),
	}

	for _, opt := range opts {
		opt(s)
	}

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(s.logger)}
	if s.journal != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithContinueOnError(true))
	}

	s.pipeline = pipeline.NewIntakePipeline(pipelineOpts...)
	if s.journal != nil {
		s.pipeline.AddStep(pipeline.NewJournalStep(s.journal, pipeline.WithJournalLogger(s.logger)))
	}

	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/orchestrate",
		s.metrics.instrument("/api/orchestrate", http.HandlerFunc(s.handleOrchestrate)))
	mux.Handle("GET /healthz",
		s.metrics.instrument("/healthz", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /metrics", s.metrics.handler())
	return s.logRequests(mux)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled, then shuts
// down gracefully within the configured ShutdownTimeout.
// Serve takes ownership of listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.cfg.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, s.cfg.MaxConnections)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	s.logger.Info("server started",
		"address", listener.Addr().String(),
		"max_connections", s.cfg.MaxConnections,
		"journal", s.journal != nil,
		"step_count", s.pipeline.StepCount(),
		"steps", s.pipeline.StepNames(),
	)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", "timeout", s.cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		_ = httpServer.Close()
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// handleOrchestrate implements POST /api/orchestrate.
func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)

	input, err := decodeOrchestrateRequest(body)
	if err != nil {
		s.logger.Debug("rejected request", "error", err)
		switch {
		case errors.Is(err, ErrBodyTooLarge):
			s.metrics.observeRejection(reasonTooLarge)
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		case errors.Is(err, ErrEmptyInput):
			s.metrics.observeRejection(reasonEmptyInput)
			writeError(w, http.StatusBadRequest, msgEmptyInput)
		default:
			s.metrics.observeRejection(reasonInvalidBody)
			writeError(w, http.StatusBadRequest, msgInvalidBody)
		}
		return
	}

	report := model.NewIntakeReport(input)
	s.logger.Debug("orchestrating request",
		"request_id", report.ID,
		"input_length", len(input),
	)

	if err := s.pipeline.Execute(r.Context(), report); err != nil || report.Failed() {
		if !slices.Contains(report.PerformedSteps, pipeline.StepFormat) {
			s.logger.Error("intake pipeline failed",
				"request_id", report.ID,
				"error", report.ErrorMessage,
			)
			writeError(w, http.StatusInternalServerError, msgInternalError)
			return
		}
		// Only the journal can fail after formatting.
		s.logger.Warn("intake not journaled",
			"request_id", report.ID,
			"error", report.ErrorMessage,
		)
	}

	result := report.Result()
	s.metrics.observeAssumptions(result.Assumptions)
	writeJSON(w, http.StatusOK, result)
}

// handleHealth implements GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader records the status before delegating.
func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs method, path, status and duration for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"content_length", r.ContentLength,
		)
	})
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an {"error": msg} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
