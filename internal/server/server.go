package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"keyfix/internal/corrector"
	"keyfix/pkg/options"
)

const startupLoadTimeout = 5 * time.Second

// NewServer creates the service and builds its first engine snapshot. If the
// word store cannot be read at startup the engine is built without custom
// words and the service keeps running.
func NewServer(config Config) (*Server, error) {
	s := &Server{
		build:         config.Build,
		store:         config.Store,
		corsOrigin:    config.CORSOrigin,
		maxBodyBytes:  config.MaxBodyBytes,
		batchWorkers:  config.BatchWorkers,
		maxBatchItems: config.MaxBatchItems,
		log:           config.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.build == nil {
		logger := s.log
		s.build = func(words []string) (*corrector.Engine, error) {
			return corrector.NewEngine(corrector.DefaultConfig(),
				options.WithExtraWords(words...), options.WithLogger(logger))
		}
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = 1 << 20
	}
	if s.maxBatchItems <= 0 {
		s.maxBatchItems = 1000
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupLoadTimeout)
	defer cancel()
	err := s.Reload(ctx)
	var storeErr *storeError
	switch {
	case errors.As(err, &storeErr):
		s.log.Warn("custom dictionary unavailable, starting without it", "error", err)
		e, err := s.build(nil)
		if err != nil {
			return nil, err
		}
		s.engine.Store(e)
	case err != nil:
		return nil, err
	}
	return s, nil
}

type storeError struct{ err error }

func (e *storeError) Error() string { return "load custom words: " + e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// Engine returns the current engine snapshot.
func (s *Server) Engine() *corrector.Engine {
	return s.engine.Load()
}

// Reload rebuilds the engine from the word store and swaps it in. Requests in
// flight keep the snapshot they started with. On error the old snapshot
// stays.
func (s *Server) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	var words []string
	if s.store != nil {
		w, err := s.store.All(ctx)
		if err != nil {
			engineReloadsTotal.WithLabelValues("error").Inc()
			return &storeError{err: err}
		}
		words = w
	}
	e, err := s.build(words)
	if err != nil {
		engineReloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("rebuild engine: %w", err)
	}
	s.engine.Store(e)
	engineReloadsTotal.WithLabelValues("ok").Inc()
	s.log.Info("engine snapshot swapped", "custom_words", len(words))
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	s.SetupAdminRoutes(mux)
	mux.HandleFunc("/api/v1/fix", s.corsMiddleware("fix", s.fixHandler))
	mux.HandleFunc("/api/v1/analyze", s.corsMiddleware("analyze", s.analyzeHandler))
	mux.HandleFunc("/api/v1/clean", s.corsMiddleware("clean", s.cleanHandler))
	mux.HandleFunc("/api/v1/batch", s.corsMiddleware("batch", s.batchHandler))
	mux.HandleFunc("/ws", s.websocketHandler)
}

// SetupAdminRoutes configures health, metrics and the custom dictionary
// endpoints only.
func (s *Server) SetupAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware("health", s.healthHandler))
	mux.HandleFunc("/api/v1/custom-word", s.corsMiddleware("custom-word", s.customWordHandler))
	mux.HandleFunc("/api/v1/custom-word/", s.corsMiddleware("custom-word-delete", s.deleteWordHandler))
	mux.Handle("/metrics", promhttp.Handler())
}

// Handler returns a mux with every route installed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	return mux
}
