// Package api exposes the permutation engine over HTTP.
//
// # Endpoints
//
//	GET  /healthz                   liveness and build version
//	GET  /v1/factorial/{n}          n! for 0 <= n <= 20
//	POST /v1/permutations/at        {"items": [...], "rank": 3, "wrap": false}
//	POST /v1/permutations/page      {"items": [...], "offset": 0, "limit": 50}
//	POST /v1/permutations/rank      {"items": [...], "permutation": [...]}
//	POST /v1/permutations/tree      {"items": [...], "highlight": 3, "format": "svg"}
//
// Every response carries an X-Request-ID header. Errors are JSON objects of
// the form {"error": {"code": "OUT_OF_RANGE", "message": "...", "request_id": "..."}}
// with the HTTP status derived from the error code.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lehmer/pkg/query"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Config configures the HTTP server.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// Server serves the HTTP API on top of a query.Runner.
type Server struct {
	cfg    Config
	runner *query.Runner
	logger *log.Logger
	router chi.Router
}

// NewServer builds the router. A nil logger uses log.Default().
func NewServer(runner *query.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{cfg: cfg, runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeErrorStatus(w, r, http.StatusMethodNotAllowed, methodNotAllowed(r))
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/factorial/{n}", s.handleFactorial)
		r.Route("/permutations", func(r chi.Router) {
			r.Post("/at", s.handleAt)
			r.Post("/page", s.handlePage)
			r.Post("/rank", s.handleRank)
			r.Post("/tree", s.handleTree)
		})
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on cfg.Addr and blocks until ctx is cancelled or the server
// fails. Cancellation triggers a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
