// Package api exposes the dialogue processor over HTTP and provides a
// matching client.
//
//	POST /process   {"text", "sessionId"?, "biometry": {"age", "gender"}}
//	→ 200 {"success": true, "text", "requireMoreInput", "sessionId", "directives"}
//	→ 400/500 {"success": false, "error"}
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
)

// maxRequestBody caps the size of a turn request.
const maxRequestBody = 1 << 20

// TurnProcessor runs one dialogue turn.
type TurnProcessor interface {
	Process(ctx context.Context, req core.Request) (core.Response, error)
}

// Options configures the HTTP server.
type Options struct {
	// Address is the listen address, e.g. ":8080".
	Address string
	// Logging services.
	Logger logging.Logger
	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API server.
type Server struct {
	processor TurnProcessor
	logger    logging.Logger
	server    *http.Server
}

// NewServer creates a new API server.
func NewServer(p TurnProcessor, optFns ...func(o *Options)) *Server {
	opts := Options{
		Address:      ":8080",
		Logger:       logging.NoOpLogger{},
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{processor: p, logger: logging.OrNoOp(opts.Logger)}
	s.server = &http.Server{
		Addr:         opts.Address,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withLogging(mux)
}

// ListenAndServe serves until Shutdown. It returns nil after a graceful shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("api.server.start", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("api.request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// ProcessResponse is the success payload of POST /process.
type ProcessResponse struct {
	Success bool `json:"success"`
	core.Response
}

// ErrorResponse is the failure payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req core.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID != "" {
		if _, err := uuid.Parse(req.SessionID); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "sessionId must be a UUID")
			return
		}
	}

	resp, err := s.processor.Process(r.Context(), req)
	if err != nil {
		s.logger.Error("api.process.failed", "session_id", req.SessionID, "error", err.Error())
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.Directives == nil {
		resp.Directives = []core.Directive{}
	}
	s.writeJSON(w, http.StatusOK, ProcessResponse{Success: true, Response: resp})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}

// writeJSON encodes v as JSON to w. Encode errors typically mean the client
// disconnected mid-response and are only logged.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("api.response.write_failed", "error", err.Error())
	}
}
