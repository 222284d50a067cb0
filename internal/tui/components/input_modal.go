package components

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/citadel/internal/tui/styles"
)

const (
	inputModalWidth = 36
	maxSuggestions  = 3
)

// InputModal is a single-line text prompt. Field names what is being edited
// so the caller knows where to send the value.
type InputModal struct {
	visible bool
	title   string
	field   string
	options []string
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = inputModalWidth - 2
	ti.Prompt = ""

	return InputModal{input: ti}
}

// Show displays the modal prefilled with value. options feed the
// suggestions shown under the input.
func (m *InputModal) Show(title, field, value, placeholder string, options []string) {
	m.visible = true
	m.title = title
	m.field = field
	m.options = options
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Field returns the field being edited
func (m InputModal) Field() string {
	return m.field
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Suggestions returns the options closest to the current text, best first
func (m InputModal) Suggestions() []string {
	value := strings.TrimSpace(m.input.Value())
	if value == "" || len(m.options) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(value, m.options)
	sort.Sort(ranks)

	out := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if strings.EqualFold(r.Target, value) || containsFold(out, r.Target) {
			continue
		}
		out = append(out, r.Target)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Update handles input events. It reports submitted on enter and changed
// when the text was edited. Tab accepts the first suggestion.
func (m InputModal) Update(msg tea.Msg) (modal InputModal, cmd tea.Cmd, submitted, changed bool) {
	if !m.visible {
		return m, nil, false, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true, false
		case "esc":
			m.Hide()
			return m, nil, false, false
		case "tab":
			if s := m.Suggestions(); len(s) > 0 {
				m.input.SetValue(s[0])
				m.input.CursorEnd()
				return m, nil, false, true
			}
			return m, nil, false, false
		}
	}

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false, m.input.Value() != before
}

// View renders the input modal
func (m InputModal) View(st styles.Styles) string {
	if !m.visible {
		return ""
	}

	m.input.TextStyle = lipgloss.NewStyle().Foreground(st.Palette.Text)
	m.input.PlaceholderStyle = st.Dim

	titleStyle := st.Title.
		Width(inputModalWidth).
		Background(st.Palette.Surface)
	rowStyle := lipgloss.NewStyle().
		Width(inputModalWidth).
		Background(st.Palette.Surface)

	rows := []string{
		titleStyle.Render(m.title),
		rowStyle.Render(""),
		rowStyle.Render(m.input.View()),
	}
	for i, s := range m.Suggestions() {
		text := "  " + styles.Truncate(s, inputModalWidth-2)
		if i == 0 {
			text = st.Accent.Render("› ") + styles.Truncate(s, inputModalWidth-2)
		}
		rows = append(rows, rowStyle.Render(st.Subtitle.Render(text)))
	}
	rows = append(rows,
		rowStyle.Render(""),
		rowStyle.Render(st.Dim.Render("enter apply • tab complete • esc close")),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return st.Modal.Render(content)
}
