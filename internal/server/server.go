package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"terrateam-setup/pkg/logging"
)

const (
	// DefaultReadHeaderTimeout is the default timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout is the default timeout for writing responses.
	DefaultWriteTimeout = 120 * time.Second
	// DefaultIdleTimeout is the default idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// writeTimeoutMargin covers request decoding and response encoding on
	// top of the outbound calls a handler makes.
	writeTimeoutMargin = 30 * time.Second
)

// Option configures a Server.
type Option func(*http.Server)

// WithWriteTimeout replaces DefaultWriteTimeout. Non-positive values are
// ignored.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *http.Server) {
		if d > 0 {
			s.WriteTimeout = d
		}
	}
}

// WriteTimeoutFor returns a write timeout that outlasts a handler making
// calls sequential outbound calls of up to callTimeout each. It never goes
// below DefaultWriteTimeout.
func WriteTimeoutFor(callTimeout time.Duration, calls int) time.Duration {
	d := time.Duration(calls)*callTimeout + writeTimeoutMargin
	if d < DefaultWriteTimeout {
		return DefaultWriteTimeout
	}
	return d
}

// Server runs the wizard's HTTP listener.
type Server struct {
	addr       string
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server for handler on addr. The handler is wrapped with
// request id and access logging middleware.
func New(addr string, handler http.Handler, opts ...Option) *Server {
	httpServer := &http.Server{
		Handler:           RequestID(AccessLog(handler)),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(httpServer)
	}
	return &Server{addr: addr, httpServer: httpServer}
}

// Listen binds the listener without serving. Serve calls it if needed.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Serve serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "Listening on http://%s", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logging.Info("Server", "Server stopped")
	return nil
}
