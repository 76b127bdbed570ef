package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/zenoss-client/internal/audit"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/logging"
)

const (
	// gracefulShutdownTimeout is the maximum time to wait for in-flight requests.
	gracefulShutdownTimeout = 10 * time.Second

	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// HealthChecker is implemented by every dependency /healthz reports on.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthFunc adapts a function to HealthChecker.
type HealthFunc func(ctx context.Context) error

// HealthCheck calls f.
func (f HealthFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// Deps holds the server's collaborators. Gatherer, Audit, Hub and Checks
// are optional; their endpoints answer 503 or report nothing when unset.
type Deps struct {
	Addr     string
	Logger   *logging.Logger
	Gatherer prometheus.Gatherer
	Audit    audit.Repository
	Hub      *Hub
	Checks   map[string]HealthChecker
	Version  string

	// JWTSecret turns on bearer auth for /api/v1. Empty leaves it open.
	JWTSecret string
}

// Server is the relay's HTTP server.
//
// Thread Safety: Start and Close may be called from different goroutines.
type Server struct {
	deps Deps

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a server. Call Start to begin listening.
//
// Returns:
//   - *Server: Ready to start
//   - error: If Logger is nil
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, errors.New("api: logger is required")
	}
	return &Server{deps: deps}, nil
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start binds the listen address and serves in the background.
//
// Returns:
//   - error: If the address cannot be bound (port in use, etc.)
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.deps.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.deps.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	s.mu.Lock()
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deps.Logger.Error("http server error", "error", err)
		}
	}()

	s.deps.Logger.Info("http server listening", "address", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the server. Safe to call before Start.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
