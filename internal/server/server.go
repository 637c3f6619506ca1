// package server contains middleware & handlers for the release review web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/kedoo/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Route is one endpoint served by a [Handler].
type Route struct {
	Method     string           // Method is the HTTP method matched exactly
	Path       string           // Path is a [http.ServeMux] path pattern, e.g. /api/releases/{id}
	Handler    http.HandlerFunc // Handler serves the request
	Middleware []Middleware     // Middleware wraps only this route, inside the router's stack
}

// Handler defines the interface for groups of endpoints in the release review service.
// Implementations handle specific areas (auth, releases, tickets, moderation).
type Handler interface {
	Routes() []Route // Routes returns the endpoints this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers every route of a Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Server runs the JSON API.
type Server struct {
	addr   string
	router Router
	logger *log.Logger
}

// New builds a [Server] listening on cfg's address with the logging and rate limiting middleware installed
// ahead of every handler.
func New(cfg shared.ServerConfig, logger *log.Logger, handlers ...Handler) *Server {
	router := NewBasicRouter()
	router.Use(Logging(logger), RateLimit(cfg.RateLimit, cfg.Burst))
	for _, h := range handlers {
		router.Handler(h)
	}
	router.Handle(http.MethodGet, "/api/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}))

	return &Server{addr: cfg.Addr(), router: router, logger: logger}
}

// Router returns the server's [Router], for tests and embedding.
func (s *Server) Router() Router { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
//
// ready, when non-nil, receives the bound address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	addr := listener.Addr().String()
	s.logger.Info("api server listening", "address", addr)
	if ready != nil {
		ready(addr)
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down api server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down api server: %w", err)
		}
		return nil
	}
}
