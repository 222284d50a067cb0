package domain

import (
	"context"
	"net/url"
)

// CatalogClient provides network access to the remote catalog.
type CatalogClient interface {
	// FetchPage returns one page of characters matching req.
	// A search with no matches returns an empty page, not an error.
	FetchPage(ctx context.Context, req PageRequest) (Page, error)

	// GetCharacter returns a single character by id.
	GetCharacter(ctx context.Context, id int) (*Character, error)
}

// StorageEvent describes a write to a storage key made by another context.
type StorageEvent struct {
	Key      string
	Value    string
	Present  bool // false when the key was removed
	External bool // true when the write came from another process
}

// Storage is a durable string key/value store shared between contexts
// (concurrently running sessions). Watch only reports writes made by other
// contexts, never the caller's own.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Watch(fn func(StorageEvent)) (cancel func())
}

// Location is the address bar: the query string that holds browsing state,
// with history so back/forward restore earlier states.
type Location interface {
	// Current returns a copy of the active parameters
	Current() url.Values

	// Push adds a new history entry
	Push(params url.Values)

	// Replace overwrites the active history entry
	Replace(params url.Values)

	// Subscribe registers fn for every change of the active parameters
	Subscribe(fn func(url.Values)) (cancel func())
}
