package browse

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/favorites"
	"github.com/mmcdole/citadel/internal/query"
)

// Pages is the page source the controller reads from.
type Pages interface {
	Get(req domain.PageRequest) (domain.Page, bool)
	Latest() (domain.Page, bool)
	Fetch(ctx context.Context, req domain.PageRequest) (domain.Page, error)
	Refetch(ctx context.Context, req domain.PageRequest) (domain.Page, error)
}

// View is everything the presentation layer shows for the current query.
type View struct {
	Query      domain.BrowseQuery
	Items      []domain.Character // Filtered and sorted; same slice until an input changes
	Page       int
	TotalPages int
	TotalCount int
	CanGoPrev  bool
	CanGoNext  bool

	Loading     bool  // No data to show yet
	Fetching    bool  // A fetch for Query is in flight
	Placeholder bool  // Items belong to an earlier query
	Err         error // Last fetch failure for Query; cleared by Retry
}

type memoKey struct {
	rev           uint64
	favs          *favorites.Set // nil unless favoritesOnly
	sort          domain.SortKey
	favoritesOnly bool
}

// Controller keeps the displayed page in step with the address bar and the
// favorites set. All browsing state lives in the address bar; mutators
// compute the next query and write it there.
//
// When queries are issued back to back, the view always ends on the result
// of the last one, whatever order the responses arrive in.
type Controller struct {
	location  domain.Location
	pages     Pages
	favorites *favorites.Store
	pipeline  *Pipeline
	logger    *slog.Logger

	mu          sync.Mutex
	ctx         context.Context
	stop        context.CancelFunc
	query       domain.BrowseQuery
	key         string
	gen         uint64
	cancelFetch context.CancelFunc
	page        domain.Page
	pageKey     string // Request key page was fetched for; "" when unknown
	hasPage     bool
	rev         uint64 // Bumped whenever page changes
	fetching    bool
	err         error
	memo        memoKey
	memoItems   []domain.Character
	hasMemo     bool

	subMu     sync.Mutex
	listeners map[uint64]func()
	nextID    uint64
	unsubs    []func()
}

// NewController wires a controller. Call Start to begin following the
// address bar.
func NewController(location domain.Location, pages Pages, favs *favorites.Store, pipeline *Pipeline, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		location:  location,
		pages:     pages,
		favorites: favs,
		pipeline:  pipeline,
		logger:    logger.With("component", "browse"),
		listeners: make(map[uint64]func()),
	}
}

// Start loads the current address and follows later changes to it and to
// the favorites set. Fetches run under ctx.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx, c.stop = context.WithCancel(ctx)
	c.mu.Unlock()

	c.unsubs = append(c.unsubs,
		c.location.Subscribe(c.onLocation),
		c.favorites.Subscribe(func(*favorites.Set) { c.notify() }),
	)
	c.onLocation(c.location.Current())
}

// Close stops following changes and cancels any fetch in flight.
func (c *Controller) Close() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil

	c.mu.Lock()
	if c.stop != nil {
		c.stop()
	}
	c.mu.Unlock()
}

func (c *Controller) onLocation(params url.Values) {
	q := query.Decode(params)
	req := q.Request()
	key := req.Key()

	c.mu.Lock()
	c.query = q
	// Sort and favorites-only never need a fetch
	if key != c.key {
		c.startLocked(req, key, false)
	}
	c.mu.Unlock()

	c.notify()
}

// startLocked supersedes any fetch in flight with one for req.
func (c *Controller) startLocked(req domain.PageRequest, key string, refetch bool) {
	c.key = key
	c.gen++
	gen := c.gen
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.err = nil

	if !refetch {
		if p, ok := c.pages.Get(req); ok {
			c.setPageLocked(p, key)
			c.fetching = false
			return
		}
	}

	// Keep showing the current page while loading; on a cold start
	// fall back to whatever the cache stored last
	if !c.hasPage {
		if p, ok := c.pages.Latest(); ok {
			c.setPageLocked(p, "")
		}
	}
	c.fetching = true

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelFetch = cancel
	c.logger.Debug("fetching", "key", key, "gen", gen, "refetch", refetch)
	go c.fetch(ctx, gen, req, refetch)
}

func (c *Controller) fetch(ctx context.Context, gen uint64, req domain.PageRequest, refetch bool) {
	var (
		page domain.Page
		err  error
	)
	if refetch {
		page, err = c.pages.Refetch(ctx, req)
	} else {
		page, err = c.pages.Fetch(ctx, req)
	}

	c.mu.Lock()
	if gen != c.gen || ctx.Err() != nil {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded fetch", "gen", gen)
		return
	}
	c.cancelFetch = nil
	c.fetching = false
	if err != nil {
		c.err = err
		c.logger.Warn("fetch failed", "error", err)
	} else {
		c.setPageLocked(page, c.key)
	}
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) setPageLocked(p domain.Page, key string) {
	c.page = p
	c.pageKey = key
	c.hasPage = true
	c.rev++
}

// View returns the current view.
func (c *Controller) View() View {
	favs := c.favorites.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.query
	v := View{
		Query:       q,
		Items:       c.itemsLocked(favs),
		Page:        q.Page,
		Fetching:    c.fetching,
		Loading:     c.fetching && !c.hasPage,
		Placeholder: c.hasPage && c.pageKey != c.key,
		Err:         c.err,
	}
	if c.hasPage {
		v.TotalPages = c.page.TotalPages
		v.TotalCount = c.page.TotalCount
	}
	v.CanGoPrev = q.Page > 1 && !c.fetching
	v.CanGoNext = q.Page < v.TotalPages && !c.fetching && !v.Placeholder
	return v
}

// itemsLocked runs the pipeline, reusing the previous result when none of
// its inputs changed.
func (c *Controller) itemsLocked(favs *favorites.Set) []domain.Character {
	key := memoKey{rev: c.rev, sort: c.query.Sort, favoritesOnly: c.query.FavoritesOnly}
	if key.favoritesOnly {
		key.favs = favs
	}
	if c.hasMemo && c.memo == key {
		return c.memoItems
	}

	c.memo = key
	c.memoItems = c.pipeline.Apply(c.page.Items, favs, key.sort, key.favoritesOnly)
	c.hasMemo = true
	return c.memoItems
}

// Subscribe registers fn for view changes. fn may be called from any
// goroutine and should call View to read the new state.
func (c *Controller) Subscribe(fn func()) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.listeners, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Controller) notify() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (c *Controller) current() domain.BrowseQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Controller) push(q domain.BrowseQuery) {
	c.location.Push(query.Encode(q, c.location.Current()))
}

func (c *Controller) replace(q domain.BrowseQuery) {
	c.location.Replace(query.Encode(q, c.location.Current()))
}

// GoToPage moves to page p. Pages below 1 go to the first page.
func (c *Controller) GoToPage(p int) {
	c.push(c.current().WithPage(p))
}

// NextPage moves forward one page when there is one.
func (c *Controller) NextPage() {
	if v := c.View(); v.CanGoNext {
		c.GoToPage(v.Page + 1)
	}
}

// PrevPage moves back one page when there is one.
func (c *Controller) PrevPage() {
	if v := c.View(); v.CanGoPrev {
		c.GoToPage(v.Page - 1)
	}
}

// SetFilter sets a filter field, or clears it when value is empty.
func (c *Controller) SetFilter(field, value string) error {
	if !domain.IsFilterField(field) {
		return fmt.Errorf("unknown filter field %q", field)
	}
	c.push(c.current().WithFilter(field, value))
	return nil
}

// ClearFilters removes every filter field.
func (c *Controller) ClearFilters() {
	c.push(c.current().WithoutFilters())
}

// SetSort changes the ordering. It replaces the current history entry.
func (c *Controller) SetSort(key domain.SortKey) {
	c.replace(c.current().WithSort(key))
}

// SetText changes the name search. It replaces the current history entry.
func (c *Controller) SetText(text string) {
	c.replace(c.current().WithText(text))
}

// SetFavoritesOnly switches between all results and favorites only.
func (c *Controller) SetFavoritesOnly(on bool) {
	c.push(c.current().WithFavoritesOnly(on))
}

// Retry fetches the current query again, bypassing the cache.
func (c *Controller) Retry() {
	c.mu.Lock()
	req := c.query.Request()
	c.startLocked(req, req.Key(), true)
	c.mu.Unlock()

	c.notify()
}
