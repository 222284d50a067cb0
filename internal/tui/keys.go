package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Home     key.Binding
	End      key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Back     key.Binding
	Forward  key.Binding

	// Query
	Search     key.Binding
	Species    key.Binding
	Type       key.Binding
	Status     key.Binding
	Gender     key.Binding
	ClearQuery key.Binding
	Sort       key.Binding

	// Favorites and display
	Favorite        key.Binding
	FavoritesOnly   key.Binding
	ClearFavorites  key.Binding
	ToggleInspector key.Binding
	Open            key.Binding
	Theme           key.Binding
	Retry           key.Binding

	Quit key.Binding
	Help key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("C-d", "half page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "n"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "p"),
			key.WithHelp("h/←", "prev page"),
		),
		Back: key.NewBinding(
			key.WithKeys("[", "backspace"),
			key.WithHelp("[", "history back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "history forward"),
		),

		// Query
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search name"),
		),
		Species: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "species"),
		),
		Type: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "type"),
		),
		Status: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "cycle status"),
		),
		Gender: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "cycle gender"),
		),
		ClearQuery: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),

		// Favorites and display
		Favorite: key.NewBinding(
			key.WithKeys("f", " "),
			key.WithHelp("f", "favorite"),
		),
		FavoritesOnly: key.NewBinding(
			key.WithKeys("tab", "F"),
			key.WithHelp("tab", "all/favorites"),
		),
		ClearFavorites: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear favorites"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("enter", "i"),
			key.WithHelp("enter", "details"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open image"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "light/dark"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "retry"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextPage, k.Favorite, k.FavoritesOnly, k.Sort, k.Help}
}

// FullHelp returns the bindings shown on the help screen, one column per group
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.HalfUp, k.HalfDown, k.Home, k.End},
		{k.NextPage, k.PrevPage, k.Back, k.Forward, k.Retry},
		{k.Search, k.Species, k.Type, k.Status, k.Gender, k.ClearQuery, k.Sort},
		{k.Favorite, k.FavoritesOnly, k.ClearFavorites, k.ToggleInspector, k.Open, k.Theme, k.Quit},
	}
}
