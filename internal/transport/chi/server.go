package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/netusage/internal/domain/channel"
	healthuc "github.com/kailas-cloud/netusage/internal/usecase/health"
)

// maxBodyBytes caps a channel call body.
const maxBodyBytes = 64 << 10

// ChannelHandler dispatches a decoded method call.
type ChannelHandler interface {
	Handle(ctx context.Context, req channel.Request) channel.Response
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the method channel, health and metrics over HTTP.
type Server struct {
	channelName string
	handler     ChannelHandler
	health      HealthChecker
	logger      *zap.Logger
}

// NewServer creates an HTTP server for a single named channel.
func NewServer(channelName string, handler ChannelHandler, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		channelName: channelName,
		handler:     handler,
		health:      health,
		logger:      logger.With(zap.String("component", "http")),
	}
}

// Routes mounts the server's endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/channels/{channel}", s.CallMethod)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errCodeMethodNotAllowed, "method not allowed")
	})
}

// CallMethod handles POST /channels/{channel}.
func (s *Server) CallMethod(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "channel")
	if name != s.channelName {
		writeError(w, http.StatusNotFound, errCodeChannelNotFound, "channel not found: "+name)
		return
	}

	var req callRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		msg := "Invalid request body"
		if !errors.Is(err, io.EOF) {
			msg += ": " + err.Error()
		}
		writeError(w, http.StatusBadRequest, errCodeBadRequest, msg)
		return
	}

	resp := s.handler.Handle(r.Context(), channel.NewRequest(req.Method, req.Arguments))
	writeJSON(w, http.StatusOK, Envelope(resp))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
