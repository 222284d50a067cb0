package tui

import "github.com/mmcdole/citadel/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ChangedMsg signals that the browse view, favorites or theme changed
type ChangedMsg struct{}

// DetailLoadedMsg carries the full record for the inspector
type DetailLoadedMsg struct {
	ID        int
	Character *domain.Character
	Err       error
}

// ImageOpenedMsg reports that an image viewer was started
type ImageOpenedMsg struct {
	Name string
}

// SearchDebouncedMsg fires when the search box has been idle long enough.
// Seq identifies the keystroke that scheduled it.
type SearchDebouncedMsg struct {
	Seq  int
	Text string
}

// ClearStatusMsg clears the footer status message when Seq is still current
type ClearStatusMsg struct {
	Seq int
}
