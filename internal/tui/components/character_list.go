package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/tui/styles"
)

// Membership reports whether a character id is marked
type Membership interface {
	Has(id int) bool
}

// CharacterList is the scrollable result list. The row under the cursor is
// the selection for favorite toggling and the inspector.
type CharacterList struct {
	items     []domain.Character
	favorites Membership
	highlight string
	cursor    int
	offset    int
	width     int
	height    int
}

// NewCharacterList creates an empty list
func NewCharacterList() CharacterList {
	return CharacterList{}
}

// SetItems replaces the rows, keeping the cursor in range
func (l *CharacterList) SetItems(items []domain.Character) {
	l.items = items
	l.clamp()
}

// Items returns the current rows
func (l CharacterList) Items() []domain.Character {
	return l.items
}

// SetFavorites sets the set used to draw favorite stars
func (l *CharacterList) SetFavorites(favs Membership) {
	l.favorites = favs
}

// SetHighlight sets the text whose fuzzy matches are highlighted in names
func (l *CharacterList) SetHighlight(text string) {
	l.highlight = strings.TrimSpace(text)
}

// SetSize updates the component dimensions
func (l *CharacterList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clamp()
}

// Cursor returns the selected row index
func (l CharacterList) Cursor() int {
	return l.cursor
}

// SetCursor moves the selection to row i, clamped to the list
func (l *CharacterList) SetCursor(i int) {
	l.cursor = i
	l.clamp()
}

// Selected returns the character under the cursor
func (l CharacterList) Selected() (domain.Character, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return domain.Character{}, false
	}
	return l.items[l.cursor], true
}

// Move shifts the cursor by delta rows
func (l *CharacterList) Move(delta int) {
	l.SetCursor(l.cursor + delta)
}

// Top moves the cursor to the first row
func (l *CharacterList) Top() {
	l.SetCursor(0)
}

// Bottom moves the cursor to the last row
func (l *CharacterList) Bottom() {
	l.SetCursor(len(l.items) - 1)
}

// PageSize returns the number of rows visible at once
func (l CharacterList) PageSize() int {
	// Each row takes two lines: name and summary
	if n := l.height / 2; n > 0 {
		return n
	}
	return 1
}

func (l *CharacterList) clamp() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}

	visible := l.PageSize()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	if maxOffset := len(l.items) - visible; l.offset > maxOffset {
		l.offset = max(maxOffset, 0)
	}
}

// View renders the visible rows
func (l CharacterList) View(st styles.Styles) string {
	if len(l.items) == 0 {
		return ""
	}

	end := min(l.offset+l.PageSize(), len(l.items))
	lines := make([]string, 0, (end-l.offset)*2)
	for i := l.offset; i < end; i++ {
		name, summary := l.renderRow(st, l.items[i], i == l.cursor)
		lines = append(lines, name, summary)
	}

	return lipgloss.NewStyle().Width(l.width).Height(l.height).Render(strings.Join(lines, "\n"))
}

func (l CharacterList) renderRow(st styles.Styles, c domain.Character, selected bool) (string, string) {
	star := styles.NotFavoriteChar
	starColor := st.Palette.Dim
	if l.favorites != nil && l.favorites.Has(c.ID) {
		star = styles.FavoriteChar
		starColor = styles.FavoriteColor
	}
	statusColor := st.StatusColor(c.Status)

	idText := fmt.Sprintf("#%-4d", c.ID)
	episodes := fmt.Sprintf("%d ep", c.EpisodeCount())
	nameWidth := l.width - lipgloss.Width(idText) - lipgloss.Width(episodes) - 10
	name := styles.Truncate(c.Name, max(nameWidth, 4))

	nameParts := []styles.RowPart{
		{Text: star + " ", Foreground: &starColor},
		{Text: styles.StatusChar + " ", Foreground: &statusColor},
	}
	nameParts = append(nameParts, l.highlightParts(st, name)...)
	gap := max(nameWidth-lipgloss.Width(name), 1)
	dim := st.Palette.Dim
	nameParts = append(nameParts,
		styles.RowPart{Text: strings.Repeat(" ", gap) + " "},
		styles.RowPart{Text: idText + " ", Foreground: &dim},
		styles.RowPart{Text: episodes, Foreground: &dim},
	)

	summary := []styles.RowPart{
		{Text: "    " + styles.Truncate(c.Summary(), max(l.width-8, 4)), Foreground: &dim},
	}

	return st.RenderListRow(nameParts, selected, l.width), st.RenderListRow(summary, selected, l.width)
}

// highlightParts splits name into parts, coloring the runes matched by the
// current search text.
func (l CharacterList) highlightParts(st styles.Styles, name string) []styles.RowPart {
	if l.highlight == "" {
		return []styles.RowPart{{Text: name}}
	}
	lower := strings.ToLower(name)
	matches := fuzzy.Find(strings.ToLower(l.highlight), []string{lower})
	// Match indexes are byte offsets into lower
	if len(matches) == 0 || len(lower) != len(name) {
		return []styles.RowPart{{Text: name}}
	}

	hit := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		hit[idx] = true
	}

	accent := st.Palette.Accent

	var parts []styles.RowPart
	var run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runHit {
			c := accent
			part.Foreground = &c
		}
		parts = append(parts, part)
		run.Reset()
	}
	for i, r := range name {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}
