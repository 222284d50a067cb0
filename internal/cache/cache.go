// Package cache memoizes catalog pages by request and deduplicates
// concurrent fetches of the same request.
package cache

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/citadel/internal/domain"
)

// flight is one outstanding remote call shared by every waiter for a key.
// The call runs on its own context, cancelled only when the last waiter
// abandons it.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// PageCache caches pages keyed by domain.PageRequest.Key. Sort and the
// favorites-only flag are applied client side and never take part in the key.
//
// Entries do not expire. Failed and cancelled fetches are never stored.
type PageCache struct {
	client domain.CatalogClient
	logger *slog.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[string]domain.Page
	flights map[string]*flight
	latest  *domain.Page
}

// New creates a cache in front of client.
func New(client domain.CatalogClient, logger *slog.Logger) *PageCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageCache{
		client:  client,
		logger:  logger.With("component", "cache"),
		entries: make(map[string]domain.Page),
		flights: make(map[string]*flight),
	}
}

// Get returns the cached page for req without fetching.
func (c *PageCache) Get(req domain.PageRequest) (domain.Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[req.Key()]
	return p, ok
}

// Latest returns the most recently stored page, for display while a
// different request loads.
func (c *PageCache) Latest() (domain.Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.latest == nil {
		return domain.Page{}, false
	}
	return *c.latest, true
}

// Fetch returns the page for req, from the cache or the remote. Concurrent
// calls for the same request share one remote call.
//
// When ctx is cancelled Fetch returns ctx.Err() at once. The shared call keeps
// running for the remaining waiters and is cancelled when none are left.
func (c *PageCache) Fetch(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	key := req.Key()

	c.mu.Lock()
	if p, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return p, nil
	}
	f, ok := c.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	c.mu.Unlock()

	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(key, req, f)
	})

	select {
	case res := <-ch:
		c.leave(key, f, false)
		if res.Err != nil {
			return domain.Page{}, res.Err
		}
		return res.Val.(domain.Page), nil
	case <-ctx.Done():
		c.leave(key, f, true)
		return domain.Page{}, ctx.Err()
	}
}

// leave drops a waiter. The last waiter out forgets the flight. When it gave
// up before the call finished, the call is cancelled too so the next Fetch
// starts fresh.
func (c *PageCache) leave(key string, f *flight, abandoned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	if c.flights[key] == f {
		delete(c.flights, key)
	}
	if !abandoned {
		f.cancel()
		return
	}
	if f.ctx.Err() != nil {
		return
	}

	c.logger.Debug("cancelling abandoned fetch", "key", key)
	f.cancel()
	c.group.Forget(key)
}

func (c *PageCache) load(key string, req domain.PageRequest, f *flight) (any, error) {
	defer func() {
		c.mu.Lock()
		if c.flights[key] == f {
			delete(c.flights, key)
		}
		c.mu.Unlock()
	}()

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	c.logger.Debug("fetching page", "key", key)
	page, err := c.client.FetchPage(f.ctx, req)

	if err != nil && f.ctx.Err() == nil {
		c.logger.Warn("page fetch failed", "key", key, "error", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Checked under mu: leave cancels under mu too. A cancelled call must
	// not store anything, even if the client returned a page regardless.
	if f.ctx.Err() != nil {
		return nil, context.Canceled
	}
	c.entries[key] = page
	c.latest = &page
	return page, nil
}

// Invalidate drops the cached page for req.
func (c *PageCache) Invalidate(req domain.PageRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, req.Key())
}

// Refetch drops any cached page for req and fetches it again.
func (c *PageCache) Refetch(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	c.Invalidate(req)
	return c.Fetch(ctx, req)
}

// Len returns the number of cached pages
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
