// Package theme persists the light/dark color scheme choice.
package theme

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/store"
)

// StorageKey is the durable key holding the theme name.
const StorageKey = "theme:v1"

// Theme is a color scheme name
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse returns the theme named s
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Toggled returns the other theme
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

var codec = store.Codec[Theme]{
	Decode: Parse,
	Encode: func(t Theme) (string, error) { return string(t), nil },
	Equal:  func(a, b Theme) bool { return a == b },
}

// Store holds the theme of one session, synchronized with other sessions.
type Store struct {
	cell *store.Cell[Theme]
}

// New loads the stored theme, falling back to def when none is stored.
func New(storage domain.Storage, def Theme, logger *slog.Logger) *Store {
	if _, err := Parse(string(def)); err != nil {
		def = Dark
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cell: store.NewCell(storage, StorageKey, codec, def, logger.With("component", "theme"))}
}

func (s *Store) Get() Theme {
	return s.cell.Get()
}

func (s *Store) Set(t Theme) error {
	return s.cell.Set(t)
}

// Toggle switches between light and dark.
func (s *Store) Toggle() error {
	return s.cell.Update(Theme.Toggled)
}

func (s *Store) Subscribe(fn func(Theme)) func() {
	return s.cell.Subscribe(fn)
}
