package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mmcdole/citadel/internal/browse"
	"github.com/mmcdole/citadel/internal/cache"
	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/favorites"
	"github.com/mmcdole/citadel/internal/nav"
	"github.com/mmcdole/citadel/internal/query"
	"github.com/mmcdole/citadel/internal/store"
	"github.com/mmcdole/citadel/internal/theme"
)

type stubCatalog struct{}

func (stubCatalog) FetchPage(_ context.Context, req domain.PageRequest) (domain.Page, error) {
	return domain.Page{
		Items: []domain.Character{
			{ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male"},
			{ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male"},
			{ID: 3, Name: "Birdperson", Status: "Dead", Species: "Alien", Gender: "Male", Image: "https://example.test/3.jpeg"},
		},
		TotalCount: 60,
		TotalPages: 3,
		Number:     req.Page,
	}, nil
}

func (stubCatalog) GetCharacter(_ context.Context, id int) (*domain.Character, error) {
	return &domain.Character{ID: id, Name: "Detail"}, nil
}

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type fixture struct {
	model      Model
	history    *nav.History
	favorites  *favorites.Store
	theme      *theme.Store
	controller *browse.Controller
}

func newFixture(t *testing.T, start string) *fixture {
	t.Helper()
	params, err := query.ParseParams(start)
	require.NoError(t, err)

	backend, err := store.OpenBolt("")
	require.NoError(t, err)
	origin := store.NewOrigin(backend, nil)

	f := &fixture{
		history:   nav.NewHistory(params),
		favorites: favorites.New(origin.Context(), nil),
		theme:     theme.New(origin.Context(), theme.Dark, nil),
	}
	f.controller = browse.NewController(f.history, cache.New(stubCatalog{}, nil), f.favorites, browse.NewPipeline(language.English), nil)
	f.controller.Start(context.Background())
	require.Eventually(t, func() bool { return !f.controller.View().Fetching }, 2*time.Second, 5*time.Millisecond)

	m, unsubscribe := NewModel(Deps{
		Browse:    f.controller,
		History:   f.history,
		Favorites: f.favorites,
		Theme:     f.theme,
		Catalog:   stubCatalog{},
	})
	t.Cleanup(func() {
		unsubscribe()
		f.controller.Close()
		origin.Close()
	})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	f.model = next.(Model)
	return f
}

// send delivers each message followed by the change signal the
// subscriptions would raise.
func (f *fixture) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		next, _ := f.model.Update(msg)
		f.model = next.(Model)
		next, _ = f.model.Update(ChangedMsg{})
		f.model = next.(Model)
	}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelShowsSortedPage(t *testing.T) {
	f := newFixture(t, "page=1")

	require.Len(t, f.model.Current.Items, 3)
	assert.Equal(t, "Birdperson", f.model.Current.Items[0].Name)

	screen := f.model.View()
	assert.Contains(t, screen, "citadel")
	assert.Contains(t, screen, "Birdperson")
}

func TestFavoriteKeyTogglesSelectedRow(t *testing.T) {
	f := newFixture(t, "page=1")

	f.send(keys("j"), keys("f"))
	assert.True(t, f.favorites.IsFavorite(2), "second row after name sort is Morty")

	f.send(keys("f"))
	assert.False(t, f.favorites.IsFavorite(2))
}

func TestStatusKeyCyclesFilter(t *testing.T) {
	f := newFixture(t, "page=2")

	f.send(keys("1"))
	assert.Equal(t, "alive", f.history.Current().Get("status"))
	assert.Equal(t, "1", f.history.Current().Get("page"))

	f.send(keys("1"), keys("1"), keys("1"))
	assert.False(t, f.history.Current().Has("status"), "cycle wraps back to any")
}

func TestSearchSubmitWritesText(t *testing.T) {
	f := newFixture(t, "page=1")
	length := f.history.Len()

	f.send(keys("/"))
	require.True(t, f.model.InputModal.IsVisible())
	f.send(keys("rick"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, f.model.InputModal.IsVisible())
	assert.Equal(t, "rick", f.history.Current().Get("q"))
	assert.Equal(t, length, f.history.Len(), "search replaces the entry")
}

func TestStaleSearchDebounceIsIgnored(t *testing.T) {
	f := newFixture(t, "page=1")

	f.send(keys("/"), keys("ri"))
	stale := f.model.searchSeq - 1
	f.send(SearchDebouncedMsg{Seq: stale, Text: "r"})
	assert.False(t, f.history.Current().Has("q"))

	f.send(SearchDebouncedMsg{Seq: f.model.searchSeq, Text: "ri"})
	assert.Equal(t, "ri", f.history.Current().Get("q"))
}

func TestSortModalReplacesSort(t *testing.T) {
	f := newFixture(t, "page=1")

	f.send(keys("s"))
	require.True(t, f.model.SortModal.IsVisible())
	f.send(keys("j"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "name-desc", f.history.Current().Get("sort"))
	assert.Equal(t, "Rick Sanchez", f.model.Current.Items[0].Name)
}

func TestThemeKeyPersistsChoice(t *testing.T) {
	f := newFixture(t, "page=1")
	require.Equal(t, theme.Dark, f.theme.Get())

	f.send(keys("t"))
	assert.Equal(t, theme.Light, f.theme.Get())
	assert.Equal(t, "#2F7D1F", string(f.model.Styles.Palette.Accent))
}

func TestBackRestoresCursor(t *testing.T) {
	f := newFixture(t, "page=1")

	f.send(keys("j"), keys("j"))
	require.Equal(t, 2, f.model.List.Cursor())

	f.send(keys("l"))
	require.Eventually(t, func() bool { return !f.controller.View().Fetching }, 2*time.Second, 5*time.Millisecond)
	f.send(ChangedMsg{})
	assert.Equal(t, 0, f.model.List.Cursor())

	f.send(keys("["))
	assert.Equal(t, "1", f.history.Current().Get("page"))
	assert.Equal(t, 2, f.model.List.Cursor())
}

// run delivers msg and then the message its command produces
func (f *fixture) run(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	if cmd != nil {
		f.send(cmd())
	}
	return cmd
}

func TestOpenKeyOpensImage(t *testing.T) {
	f := newFixture(t, "page=1")
	opener := &recordingOpener{}
	f.model.Opener = opener

	require.NotNil(t, f.run(keys("o")))
	assert.Equal(t, []string{"https://example.test/3.jpeg"}, opener.urls)
	assert.Equal(t, "Opened image for Birdperson", f.model.StatusMsg)
	assert.False(t, f.model.StatusIsErr)

	f.send(keys("j"))
	assert.Nil(t, f.run(keys("o")), "rows without an image are skipped")
	assert.Len(t, opener.urls, 1)
}

func TestOpenFailureShowsError(t *testing.T) {
	f := newFixture(t, "page=1")
	f.model.Opener = &recordingOpener{err: errors.New("no viewer")}

	f.run(keys("o"))
	assert.Equal(t, "Could not open image: no viewer", f.model.StatusMsg)
	assert.True(t, f.model.StatusIsErr)
}

func TestHistoryKeysFollowHistory(t *testing.T) {
	f := newFixture(t, "page=1")
	assert.False(t, f.model.Keys.Back.Enabled())
	assert.False(t, f.model.Keys.Forward.Enabled())

	f.send(keys("l"))
	assert.True(t, f.model.Keys.Back.Enabled())
	assert.False(t, f.model.Keys.Forward.Enabled())

	f.send(keys("["))
	assert.False(t, f.model.Keys.Back.Enabled())
	assert.True(t, f.model.Keys.Forward.Enabled())
}

func TestRecoveryHint(t *testing.T) {
	assert.Equal(t, "Press r to retry.", recoveryHint(&domain.RemoteFetchError{StatusCode: 502}))
	assert.Equal(t, "Press r to retry.", recoveryHint(domain.ErrServerOffline))
	assert.Equal(t, "Press x to clear filters.", recoveryHint(&domain.RemoteFetchError{StatusCode: 400}))
}

func TestNextOption(t *testing.T) {
	opts := []string{"a", "b"}
	assert.Equal(t, "a", nextOption(opts, ""))
	assert.Equal(t, "b", nextOption(opts, "a"))
	assert.Equal(t, "", nextOption(opts, "b"))
	assert.Equal(t, "", nextOption(opts, "zzz"))
}
