package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/tui/styles"
)

func TestInputModalSuggestions(t *testing.T) {
	m := NewInputModal()
	m.Show("Filter by species", domain.FieldSpecies, "hum", "", domain.SpeciesOptions)

	got := m.Suggestions()
	require.NotEmpty(t, got)
	assert.Equal(t, "Human", got[0], "closest match ranks first")
	assert.Contains(t, got, "Humanoid")
	assert.LessOrEqual(t, len(got), maxSuggestions)

	m, _, submitted, changed := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, submitted)
	assert.True(t, changed)
	assert.Equal(t, "Human", m.Value())
	assert.NotContains(t, m.Suggestions(), "Human", "an exact match is not suggested again")
}

func TestInputModalEscHides(t *testing.T) {
	m := NewInputModal()
	m.Show("Search by name", "q", "rick", "", nil)

	m, _, submitted, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, submitted)
	assert.False(t, m.IsVisible())
	assert.Empty(t, m.View(styles.New(styles.Dark)))
}

func TestSortModalStartsOnActiveKey(t *testing.T) {
	m := NewSortModal()
	m.Show(domain.SortIDDesc)

	handled, chosen := m.HandleKey("enter")
	assert.True(t, handled)
	assert.Equal(t, domain.SortIDDesc, chosen)
	assert.False(t, m.IsVisible())

	handled, _ = m.HandleKey("j")
	assert.False(t, handled, "hidden modal ignores keys")
}

func TestSortModalMovesWithinBounds(t *testing.T) {
	m := NewSortModal()
	m.Show(domain.SortNameAsc)

	m.HandleKey("k")
	_, chosen := m.HandleKey("enter")
	assert.Equal(t, domain.SortNameAsc, chosen)

	m.Show(domain.SortEpisodesDesc)
	m.HandleKey("j")
	_, chosen = m.HandleKey("enter")
	assert.Equal(t, domain.SortEpisodesDesc, chosen)
}

func characters(n int) []domain.Character {
	out := make([]domain.Character, n)
	for i := range out {
		out[i] = domain.Character{ID: i + 1, Name: "Character"}
	}
	return out
}

func TestCharacterListClampsCursor(t *testing.T) {
	l := NewCharacterList()
	l.SetSize(80, 10)
	l.SetItems(characters(20))

	l.Bottom()
	assert.Equal(t, 19, l.Cursor())

	l.SetItems(characters(5))
	assert.Equal(t, 4, l.Cursor())
	c, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, 5, c.ID)

	l.Move(-10)
	assert.Equal(t, 0, l.Cursor())

	l.SetItems(nil)
	_, ok = l.Selected()
	assert.False(t, ok)
}

func TestCharacterListHighlightsMatches(t *testing.T) {
	l := NewCharacterList()
	l.SetHighlight("rck")

	parts := l.highlightParts(styles.New(styles.Dark), "Rick")
	require.Len(t, parts, 3)
	assert.Equal(t, "R", parts[0].Text)
	assert.NotNil(t, parts[0].Foreground)
	assert.Equal(t, "i", parts[1].Text)
	assert.Nil(t, parts[1].Foreground)
	assert.Equal(t, "ck", parts[2].Text)
	assert.NotNil(t, parts[2].Foreground)
}

func TestInspectorIgnoresStaleDetail(t *testing.T) {
	i := NewInspector()
	i.SetItem(&domain.Character{ID: 1, Name: "Rick"})
	i.SetLoading()

	i.SetItem(&domain.Character{ID: 2, Name: "Morty"})
	i.SetDetail(1, &domain.Character{ID: 1, Name: "Rick"}, nil)
	assert.Nil(t, i.detail)

	i.SetDetail(2, &domain.Character{ID: 2, Name: "Morty Smith"}, nil)
	require.NotNil(t, i.detail)
	assert.Equal(t, "Morty Smith", i.detail.Name)
}

func TestEpisodeLabel(t *testing.T) {
	assert.Equal(t, "Episode 28", episodeLabel("https://rickandmortyapi.com/api/episode/28"))
	assert.Equal(t, "plain", episodeLabel("plain"))
}
