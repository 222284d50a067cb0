package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/query"
	"github.com/mmcdole/citadel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.State == StateHelp {
		return m.renderHelp()
	}

	rows := []string{m.renderHeader(), m.renderFilterBar()}
	if m.Current.Err != nil {
		rows = append(rows, m.renderErrorBanner())
	}
	rows = append(rows, m.renderContent(), m.renderFooter())
	screen := lipgloss.JoinVertical(lipgloss.Left, rows...)

	switch {
	case m.SortModal.IsVisible():
		return m.overlay(m.SortModal.View(m.Styles))
	case m.InputModal.IsVisible():
		return m.overlay(m.InputModal.View(m.Styles))
	}
	return screen
}

// overlay centers a modal on an empty screen
func (m Model) overlay(modal string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceBackground(m.Styles.Palette.Surface))
}

// renderHeader renders the title, tabs, sort and address bar
func (m Model) renderHeader() string {
	st := m.Styles
	q := m.Current.Query

	all := st.DimBadge.Render("All")
	favs := st.DimBadge.Render(fmt.Sprintf("Favorites %d", m.Favorites.Count()))
	if q.FavoritesOnly {
		favs = st.Badge.Render(fmt.Sprintf("Favorites %d", m.Favorites.Count()))
	} else {
		all = st.Badge.Render("All")
	}

	left := st.Title.Render("citadel") + "  " + all + " " + favs
	right := st.Dim.Render("sort ") + st.Accent.Render(q.Sort.Label())

	address := "?" + query.String(q)
	space := m.Width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if space > 8 {
		address = st.Dim.Render(styles.Truncate(address, space))
	} else {
		address = ""
	}

	return spread(m.Width, left, address, right)
}

// renderFilterBar shows the search text and every filter field
func (m Model) renderFilterBar() string {
	st := m.Styles
	q := m.Current.Query

	parts := []string{renderField(st, "name", q.Text)}
	for _, field := range domain.FilterFields {
		parts = append(parts, renderField(st, field, q.Filter(field)))
	}
	return " " + strings.Join(parts, st.Dim.Render("  "))
}

func renderField(st styles.Styles, label, value string) string {
	if value == "" {
		return st.Dim.Render(label + ": any")
	}
	return st.Dim.Render(label+": ") + st.Accent.Render(value)
}

// renderErrorBanner explains the last fetch failure
func (m Model) renderErrorBanner() string {
	msg := "Could not load characters: " + m.Current.Err.Error() + ". " + recoveryHint(m.Current.Err)
	return m.Styles.Banner.Width(m.Width).Render(styles.Truncate(msg, max(m.Width-2, 1)))
}

// recoveryHint tells the user what to do about a failed fetch. Requests the
// service rejected outright will fail again on retry.
func recoveryHint(err error) string {
	var fetchErr *domain.RemoteFetchError
	if errors.As(err, &fetchErr) && !fetchErr.Retryable() {
		return "Press x to clear filters."
	}
	return "Press r to retry."
}

// renderContent renders the list, or the empty and loading states
func (m Model) renderContent() string {
	height := m.List.PageSize() * 2
	listWidth := m.Width
	if m.ShowInspector {
		listWidth = max(m.Width*(100-InspectorPercent)/100, MinColumnWidth)
	}

	var list string
	switch {
	case m.Current.Loading:
		list = m.centered(listWidth, height, m.Spinner.View()+" "+m.Styles.Dim.Render("Loading characters..."))
	case len(m.Current.Items) == 0 && m.Current.Err == nil:
		msg := "No characters found"
		if m.Current.Query.FavoritesOnly {
			msg = "No favorites on this page"
		}
		list = m.centered(listWidth, height, m.Styles.Dim.Render(msg))
	default:
		list = m.List.View(m.Styles)
	}

	if !m.ShowInspector {
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, m.Inspector.View(m.Styles))
}

func (m Model) centered(width, height int, s string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}

// renderFooter renders fetch state, pagination and key hints
func (m Model) renderFooter() string {
	st := m.Styles
	v := m.Current

	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = st.Error.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = st.Dim.Render(m.StatusMsg)
	case v.Fetching:
		left = m.Spinner.View() + " " + st.Dim.Render("Fetching...")
	}

	prev := st.Dim.Render("‹")
	if v.CanGoPrev {
		prev = st.Accent.Render("‹")
	}
	next := st.Dim.Render("›")
	if v.CanGoNext {
		next = st.Accent.Render("›")
	}
	pages := fmt.Sprintf(" Page %d of %d · %d results ", v.Page, max(v.TotalPages, 1), v.TotalCount)
	if v.Placeholder {
		pages = fmt.Sprintf(" Page %d · loading ", v.Page)
	}
	center := prev + st.Subtitle.Render(pages) + next

	right := m.Help.View(m.Keys)

	return spread(m.Width, left, center, right)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	h := m.Help
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.Styles.ModalTitle.Render("Keyboard shortcuts"),
		h.View(m.Keys),
		"",
		m.Styles.Dim.Render("Press ? or esc to close"),
	)
	return m.overlay(m.Styles.Modal.Render(content))
}

// spread lays out left, center and right across width. The center is
// dropped when there is no room.
func spread(width int, left, center, right string) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	if lw+cw+rw >= width {
		gap := max(width-lw-rw, 1)
		return left + strings.Repeat(" ", gap) + right
	}

	available := width - lw - rw
	leftPad := (available - cw) / 2
	rightPad := available - cw - leftPad
	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}
