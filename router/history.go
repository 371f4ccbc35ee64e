package router

import (
	"slices"
	"sync"
)

// History abstracts the browser location. Push records a new entry without
// reloading the document; listeners fire when the location changes from
// outside the app (back/forward), never for Push.
type History interface {
	Path() string
	Push(path string)
	Listen(fn func(path string)) (stop func())
}

// MemoryHistory is an in-process History for tests and non-browser hosts.
// It counts document loads so callers can assert navigation stayed client-side.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	loads     int
	nextID    int
	listeners map[int]func(string)
}

var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory starts at initial as if the document had just been loaded there.
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{
		entries:   []string{CleanPath(initial)},
		loads:     1,
		listeners: make(map[int]func(string)),
	}
}

// Path returns the current entry.
func (h *MemoryHistory) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Push discards forward entries and appends path.
func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
}

// Back moves one entry back and notifies listeners. It reports false at the start.
func (h *MemoryHistory) Back() bool {
	return h.step(-1)
}

// Forward moves one entry forward and notifies listeners.
func (h *MemoryHistory) Forward() bool {
	return h.step(1)
}

func (h *MemoryHistory) step(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next]
	fns := h.snapshot()
	h.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
	return true
}

// Reload simulates a full document reload of the current entry.
func (h *MemoryHistory) Reload() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads++
}

// Loads returns how many times the document has been loaded.
func (h *MemoryHistory) Loads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loads
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Listen registers fn for back/forward changes.
func (h *MemoryHistory) Listen(fn func(path string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// snapshot returns listeners in registration order. Callers hold h.mu.
func (h *MemoryHistory) snapshot() []func(string) {
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(string), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	return fns
}
