// Package favorites keeps the persisted set of favorite characters and keeps
// it consistent across sessions sharing the same storage.
package favorites

import (
	"encoding/json"
	"log/slog"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/store"
)

// StorageKey is the durable key holding the JSON array of favorite ids.
const StorageKey = "favorites:v1"

var codec = store.Codec[*Set]{
	Decode: func(raw string) (*Set, error) {
		var ids []int
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, err
		}
		return NewSet(ids...), nil
	},
	Encode: func(s *Set) (string, error) {
		ids := s.IDs()
		if ids == nil {
			ids = []int{}
		}
		raw, err := json.Marshal(ids)
		return string(raw), err
	},
	Equal: func(a, b *Set) bool { return a.Equal(b) },
}

// Store is the favorites set of one session.
//
// Snapshot returns the same *Set until an accepted change replaces it, so
// consumers can detect changes by comparing pointers.
type Store struct {
	cell *store.Cell[*Set]
}

// New loads the favorites stored in storage. Corrupt or absent data gives an
// empty set.
func New(storage domain.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cell: store.NewCell(storage, StorageKey, codec, NewSet(), logger.With("component", "favorites")),
	}
}

// IsFavorite reports whether id is a favorite
func (s *Store) IsFavorite(id int) bool {
	return s.cell.Get().Has(id)
}

// Toggle flips id's membership, saves the new set and notifies subscribers.
func (s *Store) Toggle(id int) error {
	return s.cell.Update(func(cur *Set) *Set {
		return cur.Toggled(id)
	})
}

// ClearAll removes every favorite.
func (s *Store) ClearAll() error {
	return s.cell.Set(NewSet())
}

// Snapshot returns the current set. Callers must not modify it.
func (s *Store) Snapshot() *Set {
	return s.cell.Get()
}

// Count returns the number of favorites
func (s *Store) Count() int {
	return s.cell.Get().Len()
}

// Subscribe registers fn for every accepted change, local or from another
// session. Changes from other sessions are only observed while at least one
// subscriber exists.
func (s *Store) Subscribe(fn func(*Set)) (unsubscribe func()) {
	return s.cell.Subscribe(fn)
}
