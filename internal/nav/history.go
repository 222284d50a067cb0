// Package nav provides the address bar: the query string holding browsing
// state, with back/forward history.
package nav

import (
	"net/url"
	"sync"

	"github.com/mmcdole/citadel/internal/domain"
)

type entry struct {
	params url.Values
	scroll int // Cursor offset when the entry was left
}

// History is an in-memory session history. It implements domain.Location.
// Subscribers are called synchronously, outside the lock.
type History struct {
	mu      sync.Mutex
	entries []entry
	index   int

	listeners map[uint64]func(url.Values)
	nextID    uint64
}

var _ domain.Location = (*History)(nil)

// NewHistory starts a history whose only entry is initial.
func NewHistory(initial url.Values) *History {
	return &History{
		entries:   []entry{{params: clone(initial)}},
		listeners: make(map[uint64]func(url.Values)),
	}
}

func (h *History) Current() url.Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.entries[h.index].params)
}

// Push adds params as a new entry after the current one, dropping any
// forward entries. Pushing the current parameters again does nothing.
func (h *History) Push(params url.Values) {
	h.mu.Lock()
	if params.Encode() == h.entries[h.index].params.Encode() {
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries[:h.index+1], entry{params: clone(params)})
	h.index++
	h.mu.Unlock()

	h.notify(params)
}

// Replace overwrites the current entry.
func (h *History) Replace(params url.Values) {
	h.mu.Lock()
	cur := &h.entries[h.index]
	if params.Encode() == cur.params.Encode() {
		h.mu.Unlock()
		return
	}
	cur.params = clone(params)
	h.mu.Unlock()

	h.notify(params)
}

// Back moves to the previous entry. It reports false at the start of history.
func (h *History) Back() bool {
	return h.move(-1)
}

// Forward moves to the next entry. It reports false at the end of history.
func (h *History) Forward() bool {
	return h.move(1)
}

func (h *History) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	params := clone(h.entries[next].params)
	h.mu.Unlock()

	h.notify(params)
	return true
}

// CanGoBack reports whether Back would move
func (h *History) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanGoForward reports whether Forward would move
func (h *History) CanGoForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index < len(h.entries)-1
}

// SetScroll records the list position of the current entry.
func (h *History) SetScroll(offset int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index].scroll = offset
}

// Scroll returns the recorded list position of the current entry.
func (h *History) Scroll() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].scroll
}

// Len returns the number of entries
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) Subscribe(fn func(url.Values)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

func (h *History) notify(params url.Values) {
	h.mu.Lock()
	fns := make([]func(url.Values), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(clone(params))
	}
}

func clone(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
