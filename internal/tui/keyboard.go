package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/citadel/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		if key.Matches(msg, m.Keys.Help, m.Keys.Quit) || msg.String() == "esc" {
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	q := m.Browse.View().Query

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.State = StateHelp
		return m, nil

	case msg.String() == "esc":
		if m.ShowInspector {
			m.ShowInspector = false
			m.updateLayout()
		}
		return m, nil

	// List movement
	case key.Matches(msg, m.Keys.Up):
		m.List.Move(-1)
		return m, m.cursorMoved()
	case key.Matches(msg, m.Keys.Down):
		m.List.Move(1)
		return m, m.cursorMoved()
	case key.Matches(msg, m.Keys.HalfUp):
		m.List.Move(-max(m.List.PageSize()/2, 1))
		return m, m.cursorMoved()
	case key.Matches(msg, m.Keys.HalfDown):
		m.List.Move(max(m.List.PageSize()/2, 1))
		return m, m.cursorMoved()
	case key.Matches(msg, m.Keys.Home):
		m.List.Top()
		return m, m.cursorMoved()
	case key.Matches(msg, m.Keys.End):
		m.List.Bottom()
		return m, m.cursorMoved()

	// Pages and history
	case key.Matches(msg, m.Keys.NextPage):
		m.Browse.NextPage()
		return m, nil
	case key.Matches(msg, m.Keys.PrevPage):
		m.Browse.PrevPage()
		return m, nil
	case key.Matches(msg, m.Keys.Back):
		m.History.Back()
		return m, nil
	case key.Matches(msg, m.Keys.Forward):
		m.History.Forward()
		return m, nil

	// Query
	case key.Matches(msg, m.Keys.Search):
		m.InputModal.Show("Search by name", searchField, q.Text, "Rick, Morty, Birdperson...", m.pageValues(func(c domain.Character) string { return c.Name }))
		return m, nil
	case key.Matches(msg, m.Keys.Species):
		species := append(append([]string{}, domain.SpeciesOptions...), m.pageValues(func(c domain.Character) string { return c.Species })...)
		m.InputModal.Show("Filter by species", domain.FieldSpecies, q.Filter(domain.FieldSpecies), "Human, Alien...", species)
		return m, nil
	case key.Matches(msg, m.Keys.Type):
		m.InputModal.Show("Filter by type", domain.FieldType, q.Filter(domain.FieldType), "Parasite, Clone...", m.pageValues(func(c domain.Character) string { return c.Type }))
		return m, nil
	case key.Matches(msg, m.Keys.Status):
		return m, m.setFilter(domain.FieldStatus, nextOption(domain.StatusOptions, q.Filter(domain.FieldStatus)))
	case key.Matches(msg, m.Keys.Gender):
		return m, m.setFilter(domain.FieldGender, nextOption(domain.GenderOptions, q.Filter(domain.FieldGender)))
	case key.Matches(msg, m.Keys.ClearQuery):
		m.Browse.ClearFilters()
		return m, nil
	case key.Matches(msg, m.Keys.Sort):
		m.SortModal.Show(q.Sort)
		return m, nil

	// Favorites and display
	case key.Matches(msg, m.Keys.Favorite):
		c, ok := m.List.Selected()
		if !ok {
			return m, nil
		}
		if err := m.Favorites.Toggle(c.ID); err != nil {
			return m, m.setStatus("Could not save favorites: "+err.Error(), true)
		}
		return m, nil
	case key.Matches(msg, m.Keys.FavoritesOnly):
		m.Browse.SetFavoritesOnly(!q.FavoritesOnly)
		return m, nil
	case key.Matches(msg, m.Keys.ClearFavorites):
		if m.Favorites.Count() == 0 {
			return m, nil
		}
		if err := m.Favorites.ClearAll(); err != nil {
			return m, m.setStatus("Could not save favorites: "+err.Error(), true)
		}
		return m, m.setStatus("Favorites cleared", false)
	case key.Matches(msg, m.Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, m.syncInspector()
	case key.Matches(msg, m.Keys.Open):
		return m, m.openImage()
	case key.Matches(msg, m.Keys.Theme):
		if err := m.Theme.Toggle(); err != nil {
			return m, m.setStatus("Could not save theme: "+err.Error(), true)
		}
		return m, nil
	case key.Matches(msg, m.Keys.Retry):
		m.Browse.Retry()
		return m, nil
	}

	return m, nil
}

// searchField marks the input modal as editing the name search
const searchField = "q"

// routeToModal sends the key to a visible modal. It reports false when no
// modal is open.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.SortModal.IsVisible() {
		if _, chosen := m.SortModal.HandleKey(msg.String()); chosen != "" {
			m.Browse.SetSort(chosen)
		}
		return true, m, nil
	}

	if m.InputModal.IsVisible() {
		var (
			cmd                tea.Cmd
			submitted, changed bool
		)
		m.InputModal, cmd, submitted, changed = m.InputModal.Update(msg)
		field := m.InputModal.Field()
		value := m.InputModal.Value()

		switch {
		case submitted:
			m.InputModal.Hide()
			m.searchSeq++
			if field == searchField {
				m.Browse.SetText(value)
				return true, m, cmd
			}
			return true, m, tea.Batch(cmd, m.setFilter(field, value))
		case changed && field == searchField:
			m.searchSeq++
			return true, m, tea.Batch(cmd, DebounceSearchCmd(m.searchSeq, value))
		}
		return true, m, cmd
	}

	return false, m, nil
}

// pageValues collects the distinct non-empty values of field on the shown page
func (m Model) pageValues(field func(domain.Character) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range m.Current.Items {
		if v := field(c); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (m *Model) setFilter(field, value string) tea.Cmd {
	if err := m.Browse.SetFilter(field, value); err != nil {
		return m.setStatus(err.Error(), true)
	}
	return nil
}

func (m *Model) openImage() tea.Cmd {
	c, ok := m.List.Selected()
	if !ok || c.Image == "" || m.Opener == nil {
		return nil
	}
	return OpenImageCmd(m.Opener, c)
}

// nextOption cycles "" -> options[0] -> ... -> options[n-1] -> ""
func nextOption(options []string, current string) string {
	for i, opt := range options {
		if opt == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	if current == "" && len(options) > 0 {
		return options[0]
	}
	return ""
}
