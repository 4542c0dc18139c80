package server

import "sync"

// EchoHandlerFunc computes the content echoed back for an EchoMessage.
type EchoHandlerFunc func(content string) string

// AddHandlerFunc computes the result for an AddRequest.
type AddHandlerFunc func(a, b int32) int32

// Handler holds the operation handlers shared by all connections.
// The defaults echo the content unchanged and return a + b. Individual
// operations can be replaced for testing or extension.
type Handler struct {
	mu   sync.RWMutex
	echo EchoHandlerFunc
	add  AddHandlerFunc
}

// NewHandler creates a Handler with the default operations.
func NewHandler() *Handler {
	return &Handler{
		echo: func(content string) string { return content },
		add:  func(a, b int32) int32 { return a + b },
	}
}

// SetEchoHandler replaces the echo operation. A nil fn is ignored.
func (h *Handler) SetEchoHandler(fn EchoHandlerFunc) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.echo = fn
}

// SetAddHandler replaces the add operation. A nil fn is ignored.
func (h *Handler) SetAddHandler(fn AddHandlerFunc) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.add = fn
}

// HandleEcho runs the echo operation.
func (h *Handler) HandleEcho(content string) string {
	h.mu.RLock()
	fn := h.echo
	h.mu.RUnlock()
	return fn(content)
}

// HandleAdd runs the add operation.
func (h *Handler) HandleAdd(a, b int32) int32 {
	h.mu.RLock()
	fn := h.add
	h.mu.RUnlock()
	return fn(a, b)
}
