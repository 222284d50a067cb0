package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/citadel/internal/domain"
)

// Command factories for async operations

// SearchDebounce is how long the search box must be idle before the query
// is written to the address bar.
const SearchDebounce = 400 * time.Millisecond

// StatusTimeout is how long footer status messages stay visible
const StatusTimeout = 3 * time.Second

// WaitForChangeCmd blocks until the notifier fires
func WaitForChangeCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return ChangedMsg{}
	}
}

// LoadDetailCmd fetches one character for the inspector
func LoadDetailCmd(client domain.CatalogClient, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		c, err := client.GetCharacter(ctx, id)
		return DetailLoadedMsg{ID: id, Character: c, Err: err}
	}
}

// OpenImageCmd shows the character's image outside the terminal
func OpenImageCmd(opener Opener, c domain.Character) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(c.Image); err != nil {
			return ErrMsg{Context: "Could not open image", Err: err}
		}
		return ImageOpenedMsg{Name: c.Name}
	}
}

// DebounceSearchCmd reports the search text after SearchDebounce
func DebounceSearchCmd(seq int, text string) tea.Cmd {
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return SearchDebouncedMsg{Seq: seq, Text: text}
	})
}

// ClearStatusCmd clears the status message after StatusTimeout
func ClearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
