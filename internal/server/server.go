// Package server exposes the diagram pipeline over HTTP. It wraps a
// pipeline.Runner with a chi router, request-scoped logging, and optional
// render history persistence.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/figflow/figflow/pkg/pipeline"
	"github.com/figflow/figflow/pkg/store"
)

// Config bundles the server's collaborators.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Runner executes the pipeline. Required.
	Runner *pipeline.Runner

	// Store records render history. Nil disables history endpoints'
	// persistence; a memory store is used so the API shape stays the
	// same.
	Store store.Store

	Logger *log.Logger
}

// Server is the figflow HTTP API.
type Server struct {
	addr   string
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New assembles the router and handlers.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}

	s := &Server{
		addr:   cfg.Addr,
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Get("/renders", s.handleListRenders)
		r.Get("/renders/{id}", s.handleGetRender)
	})

	s.router = r
	return s
}

// Handler returns the root http handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
