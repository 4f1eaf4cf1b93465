package core

import "sync"

// DefaultHistoryCapacity bounds how many turns travel with each request.
const DefaultHistoryCapacity = 8

// History is a bounded FIFO buffer of conversation turns. Once capacity is
// exceeded the oldest turn is evicted. Each intake channel owns its own
// History, so an email assessment can never leak context into the
// interactive session.
type History struct {
	mu       sync.Mutex
	turns    []Turn
	capacity int
}

// NewHistory creates a history bounded to the given capacity. A
// non-positive capacity falls back to the default.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Append pushes a turn to the back, evicting from the front when the buffer
// exceeds capacity.
func (h *History) Append(role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, Turn{Role: role, Content: content})
	if len(h.turns) > h.capacity {
		h.turns = h.turns[1:]
	}
}

// Snapshot returns a copy of the buffered turns in order.
func (h *History) Snapshot() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports how many turns are currently buffered.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}
