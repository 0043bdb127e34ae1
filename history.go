package spanav

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// History is the platform navigation stack a [Navigator] reflects its state
// in, such as the browser address bar and its back/forward buttons.
type History interface {
	// Current returns the current location path.
	Current() string
	// Push adds a new entry for a committed navigation.
	Push(path, name string) error
	// Replace overwrites the current entry.
	Replace(path, name string) error
	// Back moves one entry back and reports whether it moved.
	Back() bool
	// Forward moves one entry forward and reports whether it moved.
	Forward() bool
	// Listen calls fn with the new path whenever the location changes outside
	// of Push and Replace. The returned func stops listening.
	Listen(fn func(path string)) (stop func())
}

// HistoryEntry is one entry of a [MemoryHistory].
type HistoryEntry struct {
	Path string
	Name string
}

// MemoryHistory is an in-memory [History], for headless clients and tests.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []HistoryEntry
	index     int
	listeners map[int]func(string)
	nextID    int
}

var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory returns a history positioned at initial.
func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{
		entries:   []HistoryEntry{{Path: initial}},
		listeners: make(map[int]func(string)),
	}
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].Path
}

func (h *MemoryHistory) Push(path, name string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("history: invalid path %q", path)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], HistoryEntry{Path: path, Name: name})
	h.index++
	return nil
}

func (h *MemoryHistory) Replace(path, name string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("history: invalid path %q", path)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = HistoryEntry{Path: path, Name: name}
	return nil
}

func (h *MemoryHistory) Back() bool {
	return h.move(-1)
}

func (h *MemoryHistory) Forward() bool {
	return h.move(1)
}

func (h *MemoryHistory) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next].Path
	listeners := slices.Collect(maps.Values(h.listeners))
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(path)
	}
	return true
}

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

// Entries returns a copy of the stack and the current index.
func (h *MemoryHistory) Entries() ([]HistoryEntry, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.entries), h.index
}
