package browse

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mmcdole/citadel/internal/cache"
	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/favorites"
	"github.com/mmcdole/citadel/internal/nav"
	"github.com/mmcdole/citadel/internal/store"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// fakeCatalog answers every request with a page named after its search text.
// Requests whose text has a gate block until the gate is opened; they ignore
// cancellation, like a server that answers anyway.
type fakeCatalog struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	errs  map[string]error
	calls map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		gates: make(map[string]chan struct{}),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeCatalog) hold(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[text] = make(chan struct{})
}

func (f *fakeCatalog) release(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.gates[text])
	delete(f.gates, text)
}

func (f *fakeCatalog) fail(text string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, text)
		return
	}
	f.errs[text] = err
}

func (f *fakeCatalog) Calls(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[text]
}

func (f *fakeCatalog) FetchPage(_ context.Context, req domain.PageRequest) (domain.Page, error) {
	f.mu.Lock()
	f.calls[req.Text]++
	gate := f.gates[req.Text]
	err := f.errs[req.Text]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{
		Items: []domain.Character{
			{ID: req.Page*10 + 2, Name: req.Text + " b", Episodes: make([]string, 1)},
			{ID: req.Page*10 + 1, Name: req.Text + " a", Episodes: make([]string, 2)},
		},
		TotalCount: 60,
		TotalPages: 3,
		Number:     req.Page,
	}, nil
}

func (f *fakeCatalog) GetCharacter(context.Context, int) (*domain.Character, error) {
	return nil, domain.ErrCharacterNotFound
}

type harness struct {
	catalog    *fakeCatalog
	history    *nav.History
	favorites  *favorites.Store
	controller *Controller
}

func newHarness(t *testing.T, start string, catalog *fakeCatalog) *harness {
	t.Helper()
	params, err := url.ParseQuery(start)
	require.NoError(t, err)

	backend, err := store.OpenBolt("")
	require.NoError(t, err)
	origin := store.NewOrigin(backend, nil)

	h := &harness{
		catalog:   catalog,
		history:   nav.NewHistory(params),
		favorites: favorites.New(origin.Context(), nil),
	}
	h.controller = NewController(h.history, cache.New(catalog, nil), h.favorites, NewPipeline(language.English), nil)
	h.controller.Start(context.Background())

	t.Cleanup(func() {
		h.controller.Close()
		origin.Close()
	})
	return h
}

func (h *harness) settled(t *testing.T) View {
	t.Helper()
	require.Eventually(t, func() bool { return !h.controller.View().Fetching }, waitFor, tick)
	return h.controller.View()
}

func names(items []domain.Character) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Name
	}
	return out
}

func TestLastIssuedQueryWins(t *testing.T) {
	catalog := newFakeCatalog()
	h := newHarness(t, "page=1", catalog)
	h.settled(t)

	catalog.hold("A")
	catalog.hold("B")
	h.controller.SetText("A")
	h.controller.SetText("B")

	// B answers first, A afterwards
	catalog.release("B")
	v := h.settled(t)
	assert.Equal(t, []string{"B a", "B b"}, names(v.Items))

	catalog.release("A")
	time.Sleep(50 * time.Millisecond)

	v = h.controller.View()
	assert.Equal(t, "B", v.Query.Text)
	assert.Equal(t, []string{"B a", "B b"}, names(v.Items))
	assert.False(t, v.Placeholder)
	assert.NoError(t, v.Err)
}

func TestLastIssuedQueryWinsInOrder(t *testing.T) {
	catalog := newFakeCatalog()
	h := newHarness(t, "page=1", catalog)
	h.settled(t)

	catalog.hold("A")
	catalog.hold("B")
	h.controller.SetText("A")
	h.controller.SetText("B")

	catalog.release("A")
	time.Sleep(50 * time.Millisecond)
	assert.True(t, h.controller.View().Fetching, "A must not settle the view")

	catalog.release("B")
	v := h.settled(t)
	assert.Equal(t, []string{"B a", "B b"}, names(v.Items))
}

func TestPlaceholderWhileLoading(t *testing.T) {
	catalog := newFakeCatalog()
	h := newHarness(t, "page=1&q=rick", catalog)

	first := h.settled(t)
	assert.False(t, first.Placeholder)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.CanGoNext)
	assert.False(t, first.CanGoPrev)

	catalog.hold("rick")
	h.controller.NextPage()

	v := h.controller.View()
	assert.Equal(t, 2, v.Page)
	assert.True(t, v.Fetching)
	assert.False(t, v.Loading)
	assert.True(t, v.Placeholder)
	assert.Equal(t, names(first.Items), names(v.Items), "previous page stays visible")
	assert.False(t, v.CanGoNext)
	assert.False(t, v.CanGoPrev)

	catalog.release("rick")
	v = h.settled(t)
	assert.False(t, v.Placeholder)
	assert.Equal(t, 21, v.Items[0].ID)
	assert.True(t, v.CanGoPrev)
}

func TestLoadingOnColdStart(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.hold("")
	h := newHarness(t, "", catalog)

	v := h.controller.View()
	assert.True(t, v.Loading)
	assert.Empty(t, v.Items)
	assert.Equal(t, 1, v.Page)

	catalog.release("")
	v = h.settled(t)
	assert.False(t, v.Loading)
	assert.Len(t, v.Items, 2)
}

func TestMutatorsWriteAddressBar(t *testing.T) {
	catalog := newFakeCatalog()
	h := newHarness(t, "page=3&q=rick&utm=x", catalog)
	h.settled(t)
	length := h.history.Len()

	h.controller.SetSort(domain.SortIDDesc)
	assert.Equal(t, length, h.history.Len(), "sort replaces")
	assert.Equal(t, "3", h.history.Current().Get("page"), "sort keeps the page")
	assert.Equal(t, "id-desc", h.history.Current().Get("sort"))
	assert.Equal(t, 1, catalog.Calls("rick"), "sort never refetches")

	require.NoError(t, h.controller.SetFilter(domain.FieldStatus, "alive"))
	assert.Equal(t, length+1, h.history.Len(), "filters push")
	assert.Equal(t, "1", h.history.Current().Get("page"))
	assert.Equal(t, "alive", h.history.Current().Get("status"))
	assert.Equal(t, "x", h.history.Current().Get("utm"))

	h.controller.SetText("morty")
	assert.Equal(t, length+1, h.history.Len(), "text replaces")
	assert.Equal(t, "morty", h.history.Current().Get("q"))

	h.controller.SetFavoritesOnly(true)
	assert.Equal(t, "1", h.history.Current().Get("fav"))
	h.controller.SetFavoritesOnly(false)
	assert.False(t, h.history.Current().Has("fav"))

	h.controller.ClearFilters()
	assert.False(t, h.history.Current().Has("status"))

	h.controller.GoToPage(0)
	assert.Equal(t, "1", h.history.Current().Get("page"))

	assert.Error(t, h.controller.SetFilter("planet", "earth"))
	assert.Equal(t, domain.SortIDDesc, h.controller.View().Query.Sort)
}

func TestBackRestoresQueryFromCache(t *testing.T) {
	catalog := newFakeCatalog()
	h := newHarness(t, "page=1&q=rick", catalog)
	h.settled(t)

	h.controller.GoToPage(2)
	h.settled(t)
	require.Equal(t, 2, catalog.Calls("rick"))

	require.True(t, h.history.Back())
	v := h.controller.View()
	assert.Equal(t, 1, v.Page)
	assert.False(t, v.Fetching, "page 1 is cached")
	assert.Equal(t, 11, v.Items[0].ID)
	assert.Equal(t, 2, catalog.Calls("rick"))
}

func TestRetryAfterFailure(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.fail("rick", &domain.RemoteFetchError{StatusCode: 503})
	h := newHarness(t, "q=rick", catalog)

	v := h.settled(t)
	var fetchErr *domain.RemoteFetchError
	require.True(t, errors.As(v.Err, &fetchErr))
	assert.Equal(t, 503, fetchErr.StatusCode)

	catalog.fail("rick", nil)
	h.controller.Retry()
	v = h.settled(t)
	assert.NoError(t, v.Err)
	assert.Len(t, v.Items, 2)
	assert.Equal(t, 2, catalog.Calls("rick"))
}

func TestItemsKeepIdentityUntilInputsChange(t *testing.T) {
	catalog := newFakeCatalog()
	h := newHarness(t, "q=rick", catalog)

	first := h.settled(t)
	require.NotEmpty(t, first.Items)
	second := h.controller.View()
	assert.Same(t, &first.Items[0], &second.Items[0])

	// Favorites do not matter unless favorites-only is on
	require.NoError(t, h.favorites.Toggle(first.Items[0].ID))
	assert.Same(t, &first.Items[0], &h.controller.View().Items[0])

	h.controller.SetSort(domain.SortEpisodesDesc)
	sorted := h.controller.View()
	assert.NotSame(t, &first.Items[0], &sorted.Items[0])
	assert.Equal(t, []string{"rick a", "rick b"}, names(sorted.Items))
}

func TestFavoritesOnlyFollowsStore(t *testing.T) {
	catalog := newFakeCatalog()
	h := newHarness(t, "q=rick&fav=1", catalog)

	v := h.settled(t)
	assert.Empty(t, v.Items)

	notified := make(chan struct{}, 8)
	unsub := h.controller.Subscribe(func() { notified <- struct{}{} })
	defer unsub()

	require.NoError(t, h.favorites.Toggle(11))
	<-notified

	v = h.controller.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, 11, v.Items[0].ID)
}
