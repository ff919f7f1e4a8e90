// Package api serves the stateless transforms over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/pstuifzand/go-jsonhelper/transform"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// MaxBodyBytes bounds a transform request body.
const MaxBodyBytes = 32 << 20

// Transformer runs one operation over text without touching session state.
type Transformer interface {
	Transform(operation, text string) (string, error)
}

// Config configures the HTTP API.
type Config struct {
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int
	// Metrics mounts promhttp at /metrics.
	Metrics bool
}

// Server holds the HTTP handlers.
type Server struct {
	transformer Transformer
	logger      zerolog.Logger
	cfg         Config
}

// New creates the API server.
func New(t Transformer, cfg Config, logger zerolog.Logger) *Server {
	return &Server{transformer: t, cfg: cfg, logger: logger}
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(rateLimit(s.cfg.RateLimit, time.Minute))
		}
		r.Get("/operations", s.handleOperations)
		r.Post("/transform/{operation}", s.handleTransform)
	})
	return r
}

// rateLimit limits requests per client IP with a sliding window.
func rateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorBody{
				Error: "too many requests, try again later",
				Kind:  "rate_limit_exceeded",
			})
		}),
	)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}

// ============================================================================
// Handlers
// ============================================================================

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type operationBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	ops := transform.Operations()
	body := make([]operationBody, len(ops))
	for i, op := range ops {
		body[i] = operationBody{Name: op.Name, Description: op.Description}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	operation := chi.URLParam(r, "operation")

	input, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error(), Kind: "request"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "request"})
		return
	}

	output, err := s.transformer.Transform(operation, string(input))
	if err != nil {
		kind := transform.ErrorKind(err)
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, transform.ErrUnknownOperation):
			status = http.StatusNotFound
		case kind == "internal":
			status = http.StatusInternalServerError
			s.logger.Error().Err(err).Str("operation", operation).Msg("transform failed")
		}
		writeJSON(w, status, errorBody{Error: err.Error(), Kind: kind})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, output)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
