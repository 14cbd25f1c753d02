// Package server implements the cyclegen HTTP API.
//
// Routes:
//
//	GET    /healthz            liveness probe
//	GET    /types              registered pattern types
//	POST   /generate           run the generator and archive the result
//	GET    /runs               archived runs, newest first
//	GET    /runs/{id}          one archived result document
//	GET    /runs/{id}/dot      Graphviz DOT of an archived result
//	GET    /runs/{id}/svg      SVG drawing of an archived result
//	DELETE /runs/{id}          drop an archived run
//
// Generation goes through a [pipeline.Runner], so repeated requests with the
// same settings are served from its cache. Every generated result is saved
// to a [store.Store] under a fresh id.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cyclegen/pkg/buildinfo"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
	"github.com/matzehuels/cyclegen/pkg/store"
)

const (
	// requestTimeout bounds a single request, rendering included.
	requestTimeout = 30 * time.Second

	// shutdownTimeout is how long in-flight requests get on shutdown.
	shutdownTimeout = 10 * time.Second

	// maxBodyBytes caps POST bodies.
	maxBodyBytes = 1 << 20

	// Upper bounds on the budgets a POST /generate body may ask for.
	maxDepthLimit      = 8
	maxInsertionsLimit = 1000
	maxNodesLimit      = generator.DefaultMaxNodes
)

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. A nil logger uses log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Handler returns the router with all routes and middleware registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.health)
	r.Get("/types", s.types)
	r.Post("/generate", s.generate)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.listRuns)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withRecord)
			r.Get("/", s.getRun)
			r.Get("/dot", s.getRunDOT)
			r.Get("/svg", s.getRunSVG)
			r.Delete("/", s.deleteRun)
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("stopped")
	return nil
}
