// Package server exposes an envelope study session over HTTP/JSON so a
// browser renderer can drive the parameters and draw the result.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/piwi3910/envelope/internal/export"
	"github.com/piwi3910/envelope/internal/model"
	"github.com/piwi3910/envelope/internal/session"
)

// Server serves one shared session.
type Server struct {
	session *session.Session
	ranges  model.Ranges
	logger  *log.Logger
	router  chi.Router
}

// New creates a server for sess. A nil logger falls back to log.Default().
func New(sess *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		session: sess,
		ranges:  model.DefaultRanges(),
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/defaults", s.handleDefaults)
		r.Get("/ranges", s.handleRanges)
		r.Get("/parameters", s.handleGetParameters)
		r.Put("/parameters", s.handlePutParameters)
		r.Post("/parameters/reset", s.handleReset)
		r.Get("/evaluate", s.handleEvaluate)
		r.Get("/scene", s.handleScene)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

// EvaluationResponse is an evaluation plus the derived figures a control
// panel shows next to it.
type EvaluationResponse struct {
	model.Evaluation
	Coverage   float64  `json:"coverage"`
	Advisories []string `json:"advisories"`
	Revision   uint64   `json:"revision"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) evaluationResponse(ev model.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		Evaluation: ev,
		Coverage:   ev.Yield.Coverage(ev.Parameters.Lot),
		Advisories: model.Advisories(ev.Parameters, s.ranges),
		Revision:   s.session.Revision(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Defaults())
}

func (s *Server) handleRanges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ranges)
}

func (s *Server) handleGetParameters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Parameters())
}

func (s *Server) handlePutParameters(w http.ResponseWriter, r *http.Request) {
	var patch session.Patch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid parameter patch: %v", err))
		return
	}
	if !patch.Apply(s.session.Parameters()).IsFinite() {
		writeError(w, http.StatusBadRequest, "parameters must be finite numbers")
		return
	}

	ev := s.session.Update(patch)
	s.logger.Debug("Parameters updated", "revision", s.session.Revision())
	writeJSON(w, http.StatusOK, s.evaluationResponse(ev))
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	ev := s.session.Reset()
	s.logger.Debug("Parameters reset", "revision", s.session.Revision())
	writeJSON(w, http.StatusOK, s.evaluationResponse(ev))
}

// handleEvaluate evaluates the session parameters, with any query
// parameters applied as one-off overrides that do not change the session.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	patch, err := patchFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.IsEmpty() {
		writeJSON(w, http.StatusOK, s.evaluationResponse(s.session.Evaluate()))
		return
	}
	ev := model.Evaluate(patch.Apply(s.session.Parameters()))
	writeJSON(w, http.StatusOK, s.evaluationResponse(ev))
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	patch, err := patchFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ev := model.Evaluate(patch.Apply(s.session.Parameters()))
	writeJSON(w, http.StatusOK, export.BuildScene(ev))
}

// queryKeys maps accepted query parameter names to patch fields.
var queryKeys = []struct {
	names []string
	field func(*session.Patch) **float64
}{
	{[]string{"lot_width", "width"}, func(p *session.Patch) **float64 { return &p.LotWidth }},
	{[]string{"lot_depth", "depth"}, func(p *session.Patch) **float64 { return &p.LotDepth }},
	{[]string{"front"}, func(p *session.Patch) **float64 { return &p.Front }},
	{[]string{"rear"}, func(p *session.Patch) **float64 { return &p.Rear }},
	{[]string{"left"}, func(p *session.Patch) **float64 { return &p.Left }},
	{[]string{"right"}, func(p *session.Patch) **float64 { return &p.Right }},
	{[]string{"max_height", "height"}, func(p *session.Patch) **float64 { return &p.MaxHeight }},
}

// patchFromQuery reads parameter overrides from the URL query. Values must
// be finite decimals.
func patchFromQuery(r *http.Request) (session.Patch, error) {
	var patch session.Patch
	q := r.URL.Query()
	for _, k := range queryKeys {
		for _, name := range k.names {
			raw := q.Get(name)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return session.Patch{}, fmt.Errorf("%s must be a finite number, got %q", name, raw)
			}
			*k.field(&patch) = &v
		}
	}
	return patch, nil
}

// writeJSON encodes v before writing the status, so a value that cannot be
// encoded (an infinite volume, say) becomes a 500 with an error body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: fmt.Sprintf("failed to encode response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
