// internal/server/server.go
//
// HTTP server helper with timeouts and graceful shutdown.
//
//   • ReadTimeout   – abort slow-loris headers
//   • WriteTimeout  – cap total response time
//   • IdleTimeout   – close keep-alives on idle clients
//
// Run blocks until ctx is cancelled (SIGINT/SIGTERM in cmd/web) or the
// listener fails, then drains in-flight requests for at most
// ShutdownTimeout.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Timeouts groups the server deadlines.  Zero fields use the defaults.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Read <= 0 {
		t.Read = 10 * time.Second
	}
	if t.Write <= 0 {
		t.Write = 15 * time.Second
	}
	if t.Idle <= 0 {
		t.Idle = 60 * time.Second
	}
	if t.Shutdown <= 0 {
		t.Shutdown = 20 * time.Second
	}
	return t
}

// Server wraps *http.Server with a context-driven lifecycle.
type Server struct {
	http     *http.Server
	shutdown time.Duration
	log      *zap.SugaredLogger
}

// New constructs a Server listening on addr.
func New(addr string, handler http.Handler, to Timeouts, log *zap.SugaredLogger) *Server {
	to = to.withDefaults()
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       to.Read,
			ReadHeaderTimeout: to.Read,
			WriteTimeout:      to.Write,
			IdleTimeout:       to.Idle,
		},
		shutdown: to.Shutdown,
		log:      log,
	}
}

// ShutdownTimeout is the drain budget, reused by cmd/web for the
// notification queue.
func (s *Server) ShutdownTimeout() time.Duration { return s.shutdown }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("http listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Infow("http shutting down", "timeout", s.shutdown)
	sctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.http.Shutdown(sctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
