package store

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/citadel/internal/domain"
)

// Codec converts a Cell's value to and from its stored string form.
type Codec[T any] struct {
	Decode func(string) (T, error)
	Encode func(T) (string, error)
	Equal  func(a, b T) bool
}

// Cell is a single value persisted under one storage key. Changes made
// through the Cell are saved and announced to subscribers; changes made by
// other contexts are applied without being saved again.
//
// Subscribers are notified only when the value actually changes, and the
// storage watch is held only while at least one subscriber exists.
type Cell[T any] struct {
	storage  domain.Storage
	key      string
	codec    Codec[T]
	fallback T
	logger   *slog.Logger

	writeMu sync.Mutex // Serializes Update calls
	mu      sync.RWMutex
	value   T

	notifyMu sync.Mutex // Serializes delivery
	notified T          // Last value delivered to listeners

	subMu     sync.Mutex
	listeners map[uint64]func(T)
	nextID    uint64
	unwatch   func()
}

// NewCell loads the value stored under key. An absent or undecodable value
// yields fallback.
func NewCell[T any](storage domain.Storage, key string, codec Codec[T], fallback T, logger *slog.Logger) *Cell[T] {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cell[T]{
		storage:   storage,
		key:       key,
		codec:     codec,
		fallback:  fallback,
		logger:    logger.With("key", key),
		listeners: make(map[uint64]func(T)),
	}
	c.value = c.load()
	c.notified = c.value
	return c
}

func (c *Cell[T]) load() T {
	raw, ok, err := c.storage.Get(c.key)
	if err != nil {
		c.logger.Warn("failed to read stored value", "error", err)
		return c.fallback
	}
	if !ok {
		return c.fallback
	}
	return c.decode(raw)
}

func (c *Cell[T]) decode(raw string) T {
	v, err := c.codec.Decode(raw)
	if err != nil {
		c.logger.Warn("discarding corrupt stored value", "error", err)
		return c.fallback
	}
	return v
}

// Get returns the current value
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Update replaces the value with fn(current) and saves it. When fn returns an
// equal value nothing happens. A failed save is returned, but the new value
// is still applied and announced. Listeners must not call Update.
func (c *Cell[T]) Update(fn func(T) T) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	next := fn(c.Get())
	return c.apply(next, true)
}

// Set replaces the value and saves it.
func (c *Cell[T]) Set(v T) error {
	return c.Update(func(T) T { return v })
}

func (c *Cell[T]) apply(next T, persist bool) error {
	c.mu.Lock()
	if c.codec.Equal(c.value, next) {
		c.mu.Unlock()
		return nil
	}
	c.value = next
	c.mu.Unlock()

	var err error
	if persist {
		err = c.persist(next)
	}
	c.notify()
	return err
}

func (c *Cell[T]) persist(v T) error {
	raw, err := c.codec.Encode(v)
	if err != nil {
		c.logger.Error("failed to encode value", "error", err)
		return err
	}
	if err := c.storage.Set(c.key, raw); err != nil {
		c.logger.Error("failed to save value", "error", err)
		return err
	}
	return nil
}

// notify delivers the current value. Deliveries never overlap, and a value
// is read under notifyMu, so the last delivery always carries the latest
// value even when a local and an external change race.
func (c *Cell[T]) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	v := c.Get()
	if c.codec.Equal(c.notified, v) {
		return
	}
	c.notified = v

	c.subMu.Lock()
	fns := make([]func(T), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn for value changes. The returned function removes
// it; calling it more than once is harmless.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	if len(c.listeners) == 1 {
		c.unwatch = c.storage.Watch(c.onStorage)
	}
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.listeners, id)
			var unwatch func()
			if len(c.listeners) == 0 {
				unwatch, c.unwatch = c.unwatch, nil
			}
			c.subMu.Unlock()

			if unwatch != nil {
				unwatch()
			}
		})
	}
}

// Watching reports whether the Cell currently holds a storage watch.
func (c *Cell[T]) Watching() bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.unwatch != nil
}

func (c *Cell[T]) onStorage(ev domain.StorageEvent) {
	if ev.Key != c.key {
		return
	}

	next := c.fallback
	if ev.Present {
		next = c.decode(ev.Value)
	}

	// Already stored by the writer. No writeMu: the writer holds its own
	// Cell's writeMu while this runs.
	_ = c.apply(next, false)
}
