package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/tui/styles"
)

const sortModalWidth = 22

// SortModal is a small popup for choosing the result ordering
type SortModal struct {
	visible bool
	options []domain.SortKey
	cursor  int
	active  domain.SortKey
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{options: domain.SortKeys()}
}

// Show displays the modal with the cursor on the active key
func (m *SortModal) Show(active domain.SortKey) {
	m.visible = true
	m.active = active
	m.cursor = 0
	for i, opt := range m.options {
		if opt == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press. chosen is non-empty when the user
// confirmed a key.
func (m *SortModal) HandleKey(key string) (handled bool, chosen domain.SortKey) {
	if !m.visible {
		return false, ""
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		m.visible = false
		return true, m.options[m.cursor]
	case "esc", "s":
		m.visible = false
	}

	// Consume all keys while visible
	return true, ""
}

// View renders the sort modal
func (m SortModal) View(st styles.Styles) string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		prefix := "  "
		if opt == m.active {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+opt.Label(), sortModalWidth)

		style := lipgloss.NewStyle().Foreground(st.Palette.Muted)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(st.Palette.Text).Background(st.Palette.Raised)
		case opt == m.active:
			style = lipgloss.NewStyle().Foreground(st.Palette.Accent)
		}
		lines = append(lines, style.Render(text))
	}

	return st.Modal.Padding(0, 1).Render(
		st.ModalTitle.Render("Sort by") + "\n" + strings.Join(lines, "\n"),
	)
}
