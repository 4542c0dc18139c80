package server

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/MohamedShabanElwa3er/echod/internal/logging"
	"github.com/MohamedShabanElwa3er/echod/internal/wire"
)

// ReadBufferSize is the size of the per-connection read buffer. A
// request must fit in a single read: there is no reassembly across
// reads, so messages larger than this, or multiple messages coalesced
// into one TCP segment, are not handled. This is a documented protocol
// limitation.
const ReadBufferSize = 4096

// Connection owns one accepted client socket and runs its message loop.
// A connection never touches another connection's socket or the
// server's running flag.
type Connection struct {
	conn        net.Conn
	handler     *Handler
	logger      logging.Logger
	metrics     *Metrics
	readTimeout time.Duration
	connID      string
	startTime   time.Time
}

// NewConnection creates a Connection for an accepted socket. srv may be
// nil, in which case defaults are used; that is meant for tests.
func NewConnection(conn net.Conn, srv *Server) *Connection {
	connID := logging.NewConnID()

	c := &Connection{
		conn:      conn,
		handler:   NewHandler(),
		logger:    logging.NewNop().WithConnID(connID),
		connID:    connID,
		startTime: time.Now(),
	}

	if srv != nil {
		if srv.handler != nil {
			c.handler = srv.handler
		}
		if srv.logger != nil {
			c.logger = srv.logger.WithConnID(connID)
		}
		c.metrics = srv.metrics
		c.readTimeout = srv.readTimeout
	}

	return c
}

// Handle runs the read/decode/dispatch/respond loop until the peer
// disconnects or an I/O error occurs. A clean disconnect (zero-byte
// read) returns nil; I/O errors are returned to the owner, which logs
// them. Decode failures are absorbed here: the request is dropped and
// the loop continues without a response.
func (c *Connection) Handle() error {
	c.logger.Info("connection established", "client", c.conn.RemoteAddr().String())
	defer func() {
		c.logger.Info("connection closed",
			"client", c.conn.RemoteAddr().String(),
			"duration_ms", time.Since(c.startTime).Milliseconds())
		c.conn.Close()
	}()

	buf := make([]byte, ReadBufferSize)
	for {
		if c.readTimeout > 0 {
			c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		}

		n, err := c.conn.Read(buf)
		if n > 0 {
			if werr := c.serve(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Peer performed an orderly shutdown
				return nil
			}
			return err
		}
	}
}

// serve decodes one request payload, dispatches it, and writes the
// response. Only write-side failures are returned; malformed input is
// logged and dropped.
func (c *Connection) serve(data []byte) error {
	msg, err := wire.DecodeClientMessage(data)
	if err != nil {
		c.logger.Warn("failed to decode message",
			"bytes", len(data),
			"error", err.Error())
		c.metrics.DecodeFailure()
		return nil
	}

	c.logger.Debug("request received", "kind", msg.Kind().String())
	resp := c.dispatch(msg)

	payload, err := wire.EncodeServerMessage(resp)
	if err != nil {
		c.logger.Error("failed to encode response",
			"kind", msg.Kind().String(),
			"error", err.Error())
		return nil
	}

	n, err := c.conn.Write(payload)
	if err != nil {
		return err
	}
	if n < len(payload) {
		// Partial write is fatal to this connection
		return io.ErrShortWrite
	}

	c.metrics.MessageHandled(msg.Kind())
	c.metrics.ResponseBytes(n)
	c.logger.Debug("response sent", "kind", msg.Kind().String(), "bytes", n)
	return nil
}

// dispatch maps a request variant to its paired response variant.
func (c *Connection) dispatch(msg *wire.ClientMessage) *wire.ServerMessage {
	switch msg.Kind() {
	case wire.KindEcho:
		return &wire.ServerMessage{
			Echo: &wire.EchoMessage{Content: c.handler.HandleEcho(msg.Echo.Content)},
		}
	case wire.KindAdd:
		return &wire.ServerMessage{
			Add: &wire.AddResponse{Result: c.handler.HandleAdd(msg.Add.A, msg.Add.B)},
		}
	default:
		// Unreachable: decode rejects unions with no known variant
		return &wire.ServerMessage{}
	}
}

// Logger returns the logger for this connection.
func (c *Connection) Logger() logging.Logger {
	return c.logger
}

// ConnID returns the unique identifier for this connection.
func (c *Connection) ConnID() string {
	return c.connID
}

// RemoteAddr returns the remote address of the connection.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
