// Package store provides durable key/value storage shared by concurrently
// running sessions, with change notification between them.
//
// An Origin owns one Backend. Each session takes its own Context from the
// Origin; a write through one Context is reported to the watchers of every
// other Context, never to the writer itself. Backends that can observe writes
// from other processes (FileBackend) feed those into the Origin as well.
package store

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/citadel/internal/domain"
)

// Backend is the raw durable storage behind an Origin.
type Backend interface {
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
	Delete(key string) error
	Close() error
}

// ExternalWatcher is implemented by backends that see writes from other processes.
type ExternalWatcher interface {
	WatchExternal(fn func(key, value string, present bool)) error
}

type watcher struct {
	ctx *Context
	fn  func(domain.StorageEvent)
}

// Origin fans storage writes out to every Context sharing a Backend.
type Origin struct {
	backend Backend
	logger  *slog.Logger

	mu       sync.RWMutex
	watchers map[uint64]watcher
	nextID   uint64
}

// NewOrigin wraps backend. If the backend can observe other processes, their
// writes are delivered to every Context as external events.
func NewOrigin(backend Backend, logger *slog.Logger) *Origin {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Origin{
		backend:  backend,
		logger:   logger,
		watchers: make(map[uint64]watcher),
	}

	if ew, ok := backend.(ExternalWatcher); ok {
		err := ew.WatchExternal(func(key, value string, present bool) {
			o.logger.Debug("external storage write", "key", key, "present", present)
			o.broadcast(nil, domain.StorageEvent{Key: key, Value: value, Present: present, External: true})
		})
		if err != nil {
			// Non-fatal: sessions in this process still see each other
			logger.Warn("cross-process storage sync disabled", "error", err)
		}
	}
	return o
}

// Context returns a new session handle onto the shared storage.
func (o *Origin) Context() *Context {
	return &Context{origin: o}
}

// Close closes the backend.
func (o *Origin) Close() error {
	return o.backend.Close()
}

func (o *Origin) watch(ctx *Context, fn func(domain.StorageEvent)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.watchers[id] = watcher{ctx: ctx, fn: fn}
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.watchers, id)
			o.mu.Unlock()
		})
	}
}

// broadcast delivers ev to every watcher not registered by from.
// Delivery is synchronous and happens outside the lock.
func (o *Origin) broadcast(from *Context, ev domain.StorageEvent) {
	o.mu.RLock()
	targets := make([]func(domain.StorageEvent), 0, len(o.watchers))
	for _, w := range o.watchers {
		if w.ctx != from {
			targets = append(targets, w.fn)
		}
	}
	o.mu.RUnlock()

	for _, fn := range targets {
		fn(ev)
	}
}

// Context is one session's view of an Origin. It implements domain.Storage.
type Context struct {
	origin *Origin
}

var _ domain.Storage = (*Context)(nil)

func (c *Context) Get(key string) (string, bool, error) {
	return c.origin.backend.Load(key)
}

func (c *Context) Set(key, value string) error {
	if err := c.origin.backend.Save(key, value); err != nil {
		return err
	}
	c.origin.broadcast(c, domain.StorageEvent{Key: key, Value: value, Present: true})
	return nil
}

func (c *Context) Remove(key string) error {
	if err := c.origin.backend.Delete(key); err != nil {
		return err
	}
	c.origin.broadcast(c, domain.StorageEvent{Key: key})
	return nil
}

// Watch reports writes made through other Contexts or other processes.
func (c *Context) Watch(fn func(domain.StorageEvent)) func() {
	return c.origin.watch(c, fn)
}
