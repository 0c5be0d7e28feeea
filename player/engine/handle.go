package engine

import "sync"

// Handle is a live binding over a local track's stored audio bytes.
// Exactly one handle may be alive at a time; the rebind protocol releases
// the previous handle before creating the next one.
type Handle struct {
	mu       sync.Mutex
	payload  []byte
	released bool
}

// NewHandle wraps an audio payload in a releasable handle.
func NewHandle(payload []byte) *Handle {
	return &Handle{payload: payload}
}

// Bytes returns the payload, or nil once the handle has been released.
func (h *Handle) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	return h.payload
}

// Release frees the binding. Releasing twice is a no-op.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.payload = nil
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
