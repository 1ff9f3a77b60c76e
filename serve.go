package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"fortio.org/safecast"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quilcirq/latex"
	"quilcirq/quil"
)

const (
	maxRequestBytes = 1 << 20 // largest accepted Quil body
	latexMediaType  = "text/x-latex; charset=utf-8"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// renderServer answers render requests with the configured settings as
// defaults; query parameters override them per request.
type renderServer struct {
	settings latex.Settings
	logger   *log.Logger
}

// newRouter returns the HTTP handler for the render service.
func newRouter(settings latex.Settings, logger *log.Logger) http.Handler {
	s := &renderServer{settings: settings, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	return r
}

// logRequests logs each request with its status and duration.
func (s *renderServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}

func (s *renderServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *renderServer) handleRender(w http.ResponseWriter, r *http.Request) {
	settings, err := settingsFromQuery(s.settings, r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		respondWithError(w, http.StatusBadRequest, errorResponse{Error: "read body: " + err.Error()})
		return
	}

	p, err := quil.Parse(string(body))
	if err != nil {
		resp := errorResponse{Error: err.Error()}
		var pe *quil.ParseError
		if errors.As(err, &pe) {
			resp = errorResponse{Error: pe.Message, Line: pe.Line, Column: pe.Column}
		}
		respondWithError(w, http.StatusBadRequest, resp)
		return
	}

	doc, err := latex.Render(p, settings)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, latex.ErrDuplicateQubit) || errors.Is(err, latex.ErrImputeSpan) {
			status = http.StatusUnprocessableEntity
		}
		respondWithError(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", latexMediaType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// settingsFromQuery applies the texify, impute, labels and open_wire query
// parameters on top of base.
func settingsFromQuery(base latex.Settings, r *http.Request) (latex.Settings, error) {
	s := base
	q := r.URL.Query()

	flags := []struct {
		name string
		dst  *bool
	}{
		{"texify", &s.TexifyNumericalConstants},
		{"impute", &s.ImputeMissingQubits},
		{"labels", &s.LabelQubitLines},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s, fmt.Errorf("invalid %s=%q: want a boolean", f.name, v)
		}
		*f.dst = b
	}

	if v := q.Get("open_wire"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("invalid open_wire=%q: want an integer", v)
		}
		w, err := safecast.Conv[uint32](n)
		if err != nil || w > maxOpenWire {
			return s, fmt.Errorf("open_wire must be between 0 and %d", maxOpenWire)
		}
		s.QubitLineOpenWireLength = w
	}
	return s, nil
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, resp errorResponse) {
	respondWithJSON(w, status, resp)
}

// serve runs the render service on addr until ctx is cancelled, then shuts
// down gracefully.
func serve(ctx context.Context, addr string, settings latex.Settings) error {
	logger := loggerFromContext(ctx)

	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(settings, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
