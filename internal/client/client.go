// Package client provides a small TCP client for the echod server,
// used by the integration tests and example tooling. It connects,
// sends encoded requests, and receives responses with a bounded number
// of read retries.
package client

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/MohamedShabanElwa3er/echod/internal/wire"
)

// Client errors.
var (
	// ErrNotConnected is returned when an operation needs an active connection
	ErrNotConnected = errors.New("client: no active connection")
	// ErrServerClosed is returned when the server closed the connection
	ErrServerClosed = errors.New("client: server closed the connection")
	// ErrNoResponse is returned when no response arrived within the retry budget
	ErrNoResponse = errors.New("client: no response received")
)

// readBufferSize matches the server-side single-read framing.
const readBufferSize = 4096

// Client is a TCP client for the echod wire protocol.
type Client struct {
	addr    string
	timeout time.Duration
	conn    net.Conn
}

// New creates a client for the given server address. timeout bounds
// each individual read attempt in Receive.
func New(addr string, timeout time.Duration) *Client {
	return &Client{
		addr:    addr,
		timeout: timeout,
	}
}

// Connect establishes the TCP connection.
func (c *Client) Connect() error {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return fmt.Errorf("client: connecting to %s: %w", c.addr, err)
	}
	c.conn = conn
	return nil
}

// Disconnect closes the connection. Calling it without an active
// connection is a no-op.
func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Send encodes the request and writes it as one payload.
func (c *Client) Send(msg *wire.ClientMessage) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	data, err := wire.EncodeClientMessage(msg)
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("client: sending message: %w", err)
	}
	return nil
}

// Receive reads one response, retrying up to retries times on read
// timeouts. A zero-byte read means the server disconnected.
func (c *Client) Receive(retries int) (*wire.ServerMessage, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	buf := make([]byte, readBufferSize)
	for attempt := 0; attempt < retries; attempt++ {
		if c.timeout > 0 {
			c.conn.SetReadDeadline(time.Now().Add(c.timeout))
		}

		n, err := c.conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrServerClosed, err)
		}
		if n == 0 {
			return nil, ErrServerClosed
		}

		msg, err := wire.DecodeServerMessage(buf[:n])
		if err != nil {
			return nil, err
		}
		return msg, nil
	}

	return nil, ErrNoResponse
}

// Echo sends an EchoMessage and returns the echoed content.
func (c *Client) Echo(content string) (string, error) {
	if err := c.Send(&wire.ClientMessage{Echo: &wire.EchoMessage{Content: content}}); err != nil {
		return "", err
	}
	resp, err := c.Receive(3)
	if err != nil {
		return "", err
	}
	if resp.Echo == nil {
		return "", fmt.Errorf("client: unexpected response kind %v", resp.Kind())
	}
	return resp.Echo.Content, nil
}

// Add sends an AddRequest and returns the computed sum.
func (c *Client) Add(a, b int32) (int32, error) {
	if err := c.Send(&wire.ClientMessage{Add: &wire.AddRequest{A: a, B: b}}); err != nil {
		return 0, err
	}
	resp, err := c.Receive(3)
	if err != nil {
		return 0, err
	}
	if resp.Add == nil {
		return 0, fmt.Errorf("client: unexpected response kind %v", resp.Kind())
	}
	return resp.Add.Result, nil
}
