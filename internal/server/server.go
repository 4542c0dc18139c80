// Package server implements the echod TCP message server: a listening
// accept loop that spawns one handler goroutine per connection, and the
// per-connection read/decode/dispatch/respond loop.
package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MohamedShabanElwa3er/echod/internal/logging"
)

// Server errors.
var (
	// ErrBindFailed is returned when the listen address cannot be bound
	ErrBindFailed = errors.New("server: failed to bind listener")
)

// Server owns the listening socket, the accept loop, and the collection
// of per-connection workers. The running flag is owned by the instance;
// there is no process-wide state.
type Server struct {
	addr        string
	maxClients  int
	listener    net.Listener
	handler     *Handler
	logger      logging.Logger
	metrics     *Metrics
	readTimeout time.Duration

	running atomic.Bool
	wg      sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHandler sets the operation handler used by all connections.
func WithHandler(handler *Handler) Option {
	return func(s *Server) {
		s.handler = handler
	}
}

// WithMetrics sets the metrics collector. Without it no metrics are
// recorded.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// WithReadTimeout bounds how long a connection may sit idle between
// requests. Zero disables the deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = d
	}
}

// New binds the listen address and returns a Server ready to Run.
// Bind errors are fatal: no Server is produced.
//
// maxClients is an advisory limit. It is logged at startup and never
// enforced by rejecting connections.
func New(addr string, maxClients int, opts ...Option) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBindFailed, addr, err)
	}

	s := &Server{
		addr:       addr,
		maxClients: maxClients,
		listener:   listener,
		handler:    NewHandler(),
		logger:     logging.NewDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Addr returns the bound listen address. Useful when binding port 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run accepts connections until Stop is called. Each accepted connection
// is handled by its own goroutine, tracked for JoinWorkers. Accept
// errors are not fatal; the loop logs them and keeps going. Run returns
// nil once the running flag is cleared and the blocked accept unblocks.
func (s *Server) Run() error {
	s.running.Store(true)
	s.logger.Info("server listening",
		"address", s.listener.Addr().String(),
		"max_clients", s.maxClients)

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				break
			}
			if isClosedError(err) {
				// Listener closed underneath us; nothing left to accept
				break
			}
			s.logger.Warn("accept error", "error", err.Error())
			continue
		}

		s.logger.Info("client connected", "client", conn.RemoteAddr().String())
		s.metrics.ConnectionAccepted()

		s.wg.Add(1)
		go func(netConn net.Conn) {
			defer s.wg.Done()
			defer s.metrics.ConnectionClosed()
			c := NewConnection(netConn, s)
			if err := c.Handle(); err != nil {
				// Failure is local to this connection; log and move on
				c.Logger().Warn("connection error",
					"client", netConn.RemoteAddr().String(),
					"error", err.Error())
			}
		}(conn)
	}

	// The flag is already false after Stop; clearing it here also covers
	// exits caused by a listener closed before Run started.
	s.running.Store(false)
	s.logger.Info("server stopped")
	return nil
}

// Stop signals shutdown: it clears the running flag and closes the
// listener so the blocked accept returns. It does not interrupt active
// connections; they run to natural completion. Stop is idempotent, a
// repeated call logs a warning. Stopping a server whose Run was never
// called releases the bound socket, and a later Run returns at once.
func (s *Server) Stop() {
	if s.running.CompareAndSwap(true, false) {
		s.logger.Info("shutdown signal sent")
		s.listener.Close()
		return
	}
	// Either Stop already ran or Run never started. Close the listener
	// regardless so the socket is released; double-close is harmless.
	s.logger.Warn("server already stopped or not running")
	s.listener.Close()
}

// JoinWorkers blocks until every spawned connection handler finishes.
// Handler errors are logged where the handler runs and never aggregated
// into a server-level failure.
func (s *Server) JoinWorkers() {
	s.wg.Wait()
}

// isClosedError reports whether the error comes from a closed listener.
func isClosedError(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
