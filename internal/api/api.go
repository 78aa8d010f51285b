// Package api exposes the allocation pipeline over HTTP.
//
// The server wraps a plan.Runner, so API responses and CLI runs are
// computed and cached identically. Endpoints:
//
//	POST /v1/allocate  run an allocation for a set of towers
//	GET  /v1/healthz   liveness probe
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/geo"
	"github.com/telcoplan/hubgrid/pkg/plan"
)

// Server handles HTTP allocation requests.
type Server struct {
	runner *plan.Runner
	logger *log.Logger
}

// New creates a server around an allocation runner.
// If logger is nil, log.Default() is used.
func New(runner *plan.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP handler with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", s.handleHealthz)
		r.Post("/allocate", s.handleAllocate)
	})

	return r
}

// AllocateRequest is the body of POST /v1/allocate.
type AllocateRequest struct {
	Towers  []geo.Node   `json:"towers"`
	Options plan.Options `json:"options"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	if len(req.Towers) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "towers are required"))
		return
	}

	result, err := s.runner.Allocate(r.Context(), req.Towers, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeError maps structured error codes to HTTP status codes and writes a
// JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(code),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidNode, errors.ErrCodeInvalidMatrix,
		errors.ErrCodeInvalidThreshold, errors.ErrCodeInvalidTarget, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
