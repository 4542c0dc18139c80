package server

import (
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/MohamedShabanElwa3er/echod/internal/wire"
)

// mockConn implements net.Conn for testing. Each queued chunk is
// returned by exactly one Read call, and each Write call is recorded
// separately, mirroring the one-read-one-message framing.
type mockConn struct {
	mu         sync.Mutex
	reads      [][]byte
	readErr    error
	writes     [][]byte
	writeErr   error
	shortWrite bool
	closed     bool
}

func newMockConn(chunks ...[]byte) *mockConn {
	return &mockConn{reads: chunks}
}

func (m *mockConn) Read(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, net.ErrClosed
	}
	if len(m.reads) == 0 {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, io.EOF
	}
	chunk := m.reads[0]
	m.reads = m.reads[1:]
	n := copy(b, chunk)
	return n, nil
}

func (m *mockConn) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, net.ErrClosed
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	if m.shortWrite && len(b) > 1 {
		buf := make([]byte, len(b)-1)
		copy(buf, b)
		m.writes = append(m.writes, buf)
		return len(b) - 1, nil
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	m.writes = append(m.writes, buf)
	return len(b), nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 8080}
}

func (m *mockConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("192.168.1.100"), Port: 54321}
}

func (m *mockConn) SetDeadline(t time.Time) error      { return nil }
func (m *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

func (m *mockConn) writtenResponses() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Helper to encode a client echo request.
func encodeEchoRequest(t *testing.T, content string) []byte {
	t.Helper()
	data, err := wire.EncodeClientMessage(&wire.ClientMessage{
		Echo: &wire.EchoMessage{Content: content},
	})
	if err != nil {
		t.Fatalf("encoding echo request: %v", err)
	}
	return data
}

// Helper to encode a client add request.
func encodeAddRequest(t *testing.T, a, b int32) []byte {
	t.Helper()
	data, err := wire.EncodeClientMessage(&wire.ClientMessage{
		Add: &wire.AddRequest{A: a, B: b},
	})
	if err != nil {
		t.Fatalf("encoding add request: %v", err)
	}
	return data
}

// Helper to decode one recorded response.
func decodeResponse(t *testing.T, data []byte) *wire.ServerMessage {
	t.Helper()
	msg, err := wire.DecodeServerMessage(data)
	if err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return msg
}

func TestHandleEcho(t *testing.T) {
	conn := newMockConn(encodeEchoRequest(t, "Test Echo"))
	c := NewConnection(conn, nil)

	if err := c.Handle(); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	responses := conn.writtenResponses()
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	resp := decodeResponse(t, responses[0])
	if resp.Echo == nil || resp.Echo.Content != "Test Echo" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleAdd(t *testing.T) {
	conn := newMockConn(encodeAddRequest(t, 10, 20))
	c := NewConnection(conn, nil)

	if err := c.Handle(); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	responses := conn.writtenResponses()
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	resp := decodeResponse(t, responses[0])
	if resp.Add == nil || resp.Add.Result != 30 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleSequentialMessages(t *testing.T) {
	contents := []string{"Hello, World!", "How are you?", "Goodbye!"}
	chunks := make([][]byte, len(contents))
	for i, s := range contents {
		chunks[i] = encodeEchoRequest(t, s)
	}

	conn := newMockConn(chunks...)
	c := NewConnection(conn, nil)

	if err := c.Handle(); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	responses := conn.writtenResponses()
	if len(responses) != len(contents) {
		t.Fatalf("expected %d responses, got %d", len(contents), len(responses))
	}
	for i, want := range contents {
		resp := decodeResponse(t, responses[i])
		if resp.Echo == nil || resp.Echo.Content != want {
			t.Errorf("response %d: got %+v, want content %q", i, resp, want)
		}
	}
}

func TestHandleCleanDisconnect(t *testing.T) {
	conn := newMockConn()
	c := NewConnection(conn, nil)

	if err := c.Handle(); err != nil {
		t.Errorf("clean disconnect should not be an error, got %v", err)
	}
	if len(conn.writtenResponses()) != 0 {
		t.Error("no responses expected")
	}
}

func TestHandleReadError(t *testing.T) {
	readErr := errors.New("connection reset by peer")
	conn := newMockConn()
	conn.readErr = readErr
	c := NewConnection(conn, nil)

	if err := c.Handle(); !errors.Is(err, readErr) {
		t.Errorf("expected read error surfaced, got %v", err)
	}
}

func TestHandleMalformedMessageDropped(t *testing.T) {
	conn := newMockConn(
		[]byte{0xFF, 0xFF, 0xFF},
		encodeEchoRequest(t, "still alive"),
	)
	c := NewConnection(conn, nil)

	if err := c.Handle(); err != nil {
		t.Fatalf("malformed input must not terminate the connection: %v", err)
	}

	responses := conn.writtenResponses()
	if len(responses) != 1 {
		t.Fatalf("expected 1 response (malformed input dropped), got %d", len(responses))
	}
	resp := decodeResponse(t, responses[0])
	if resp.Echo == nil || resp.Echo.Content != "still alive" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleWriteError(t *testing.T) {
	writeErr := errors.New("broken pipe")
	conn := newMockConn(
		encodeEchoRequest(t, "never delivered"),
		encodeEchoRequest(t, "unreachable"),
	)
	conn.writeErr = writeErr
	c := NewConnection(conn, nil)

	if err := c.Handle(); !errors.Is(err, writeErr) {
		t.Errorf("expected write error surfaced, got %v", err)
	}
	// The loop must stop at the failed write, not drain remaining input
	conn.mu.Lock()
	remaining := len(conn.reads)
	conn.mu.Unlock()
	if remaining != 1 {
		t.Errorf("expected 1 unread request after write failure, got %d", remaining)
	}
}

func TestHandlePartialWriteFatal(t *testing.T) {
	conn := newMockConn(
		encodeEchoRequest(t, "truncated"),
		encodeEchoRequest(t, "unreachable"),
	)
	conn.shortWrite = true
	c := NewConnection(conn, nil)

	if err := c.Handle(); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("expected io.ErrShortWrite, got %v", err)
	}
	if got := len(conn.writtenResponses()); got != 1 {
		t.Errorf("expected 1 write attempt before failing, got %d", got)
	}
}

func TestHandleClosesSocket(t *testing.T) {
	conn := newMockConn()
	c := NewConnection(conn, nil)

	if err := c.Handle(); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	conn.mu.Lock()
	closed := conn.closed
	conn.mu.Unlock()
	if !closed {
		t.Error("socket must be closed when the handler exits")
	}
}

func TestConnIDAssigned(t *testing.T) {
	a := NewConnection(newMockConn(), nil)
	b := NewConnection(newMockConn(), nil)

	if a.ConnID() == "" || b.ConnID() == "" {
		t.Fatal("connection ID must be assigned")
	}
	if a.ConnID() == b.ConnID() {
		t.Error("connection IDs must be unique")
	}
}
