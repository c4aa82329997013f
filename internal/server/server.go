// Package server exposes the analysis pipeline as an HTTP API.
//
// Endpoints:
//
//	POST /invoke        run an analysis over {xml_url, image_url}
//	GET  /health        liveness probe
//	GET  /reports       list stored report summaries, newest first
//	GET  /reports/{id}  fetch a stored report document
package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/screenlint/screenlint/internal/config"
	"github.com/screenlint/screenlint/internal/store"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/pipeline"
)

// Server runs the HTTP API on top of a pipeline runner and a report
// store.
type Server struct {
	cfg    config.Server
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. A nil store falls back to a bounded in-memory
// store and a nil runner to an uncached one.
func New(cfg config.Server, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if st == nil {
		st = store.NewMemoryStore(0)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger,
	}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/invoke", s.handleInvoke)
	r.Get("/reports", s.handleListReports)
	r.Get("/reports/{id}", s.handleGetReport)

	return r
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout.Duration,
		WriteTimeout: s.cfg.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(errors.ErrCodeInternal, err, "serve http")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown http server")
	}
	return nil
}
