package server

import "testing"

func TestDefaultHandlers(t *testing.T) {
	h := NewHandler()

	if got := h.HandleEcho("Hello, World!"); got != "Hello, World!" {
		t.Errorf("HandleEcho = %q", got)
	}
	if got := h.HandleAdd(10, 20); got != 30 {
		t.Errorf("HandleAdd(10, 20) = %d, want 30", got)
	}
	if got := h.HandleAdd(-5, 3); got != -2 {
		t.Errorf("HandleAdd(-5, 3) = %d, want -2", got)
	}
}

func TestSetHandlers(t *testing.T) {
	h := NewHandler()

	h.SetEchoHandler(func(content string) string { return "fixed" })
	h.SetAddHandler(func(a, b int32) int32 { return a * b })

	if got := h.HandleEcho("anything"); got != "fixed" {
		t.Errorf("HandleEcho = %q, want %q", got, "fixed")
	}
	if got := h.HandleAdd(4, 5); got != 20 {
		t.Errorf("HandleAdd = %d, want 20", got)
	}
}

func TestSetNilHandlerIgnored(t *testing.T) {
	h := NewHandler()
	h.SetEchoHandler(nil)
	h.SetAddHandler(nil)

	// Defaults must survive
	if got := h.HandleEcho("kept"); got != "kept" {
		t.Errorf("HandleEcho = %q", got)
	}
	if got := h.HandleAdd(1, 2); got != 3 {
		t.Errorf("HandleAdd = %d", got)
	}
}
