package domain

import "fmt"

// Character is a single record of the remote catalog.
// Records are immutable once fetched; identity is ID.
type Character struct {
	ID       int      // Server-assigned identifier
	Name     string   // Display name
	Status   string   // "Alive", "Dead" or "unknown"
	Species  string   // e.g. "Human"
	Type     string   // Sub-species, often empty
	Gender   string   // "Female", "Male", "Genderless" or "unknown"
	Image    string   // Avatar URL
	Episodes []string // Episode URLs in air order
	Origin   string   // Origin location name
	Location string   // Last known location name
}

// EpisodeCount returns the number of episodes the character appears in
func (c Character) EpisodeCount() int {
	return len(c.Episodes)
}

// Summary returns the one-line description shown under the name
func (c Character) Summary() string {
	if c.Type != "" {
		return fmt.Sprintf("%s • %s • %s • %s", c.Status, c.Species, c.Type, c.Gender)
	}
	return fmt.Sprintf("%s • %s • %s", c.Status, c.Species, c.Gender)
}

// Page is one page of search results.
type Page struct {
	Items      []Character
	TotalCount int // Matches across all pages
	TotalPages int
	Number     int // 1-based page number this page was requested as
}

// HasNext reports whether a page after this one exists
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether a page before this one exists
func (p Page) HasPrev() bool {
	return p.Number > 1 && p.TotalPages > 0
}

// EmptyPage is the page returned when a search has no matches.
func EmptyPage(number int) Page {
	return Page{Items: []Character{}, Number: number}
}
