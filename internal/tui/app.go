package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/citadel/internal/browse"
	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/favorites"
	"github.com/mmcdole/citadel/internal/nav"
	"github.com/mmcdole/citadel/internal/query"
	"github.com/mmcdole/citadel/internal/theme"
	"github.com/mmcdole/citadel/internal/tui/components"
	"github.com/mmcdole/citadel/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Layout proportions
const (
	InspectorPercent = 40
	MinColumnWidth   = 30

	// Header, filter bar and footer
	ChromeHeight = 3
)

// Opener opens a URL outside the terminal
type Opener interface {
	Open(url string) error
}

// Deps holds everything the model drives
type Deps struct {
	Browse    *browse.Controller
	History   *nav.History
	Favorites *favorites.Store
	Theme     *theme.Store
	Catalog   domain.CatalogClient
	Opener    Opener // Optional
	Logger    *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Browse    *browse.Controller
	History   *nav.History
	Favorites *favorites.Store
	Theme     *theme.Store
	Catalog   domain.CatalogClient
	Opener    Opener
	Logger    *slog.Logger

	// UI Components
	List       components.CharacterList
	Inspector  components.Inspector
	SortModal  components.SortModal
	InputModal components.InputModal
	Spinner    spinner.Model
	Help       help.Model
	Keys       KeyMap
	Styles     styles.Styles

	// Current browse state
	Current browse.View

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	ShowInspector bool

	changes   <-chan struct{}
	statusSeq int
	searchSeq int
	queryKey  string // Canonical query the list cursor belongs to
}

// NewModel creates the application model and subscribes it to browse,
// favorites and theme changes. Call the returned function on exit.
func NewModel(deps Deps) (Model, func()) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	notifier := NewChannelNotifier()
	unsubs := []func(){
		deps.Browse.Subscribe(notifier.Notify),
		deps.Favorites.Subscribe(func(*favorites.Set) { notifier.Notify() }),
		deps.Theme.Subscribe(func(theme.Theme) { notifier.Notify() }),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		State:      StateBrowsing,
		Browse:     deps.Browse,
		History:    deps.History,
		Favorites:  deps.Favorites,
		Theme:      deps.Theme,
		Catalog:    deps.Catalog,
		Opener:     deps.Opener,
		Logger:     logger.With("component", "tui"),
		List:       components.NewCharacterList(),
		Inspector:  components.NewInspector(),
		SortModal:  components.NewSortModal(),
		InputModal: components.NewInputModal(),
		Spinner:    sp,
		Help:       help.New(),
		Keys:       DefaultKeyMap(),
		changes:    notifier.C(),
	}
	m.refresh()

	return m, func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForChangeCmd(m.changes),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case ChangedMsg:
		m.refresh()
		m.updateLayout()
		return m, tea.Batch(WaitForChangeCmd(m.changes), m.syncInspector())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case DetailLoadedMsg:
		if msg.Err != nil {
			m.Logger.Warn("detail load failed", "id", msg.ID, "error", msg.Err)
		}
		m.Inspector.SetDetail(msg.ID, msg.Character, msg.Err)
		return m, nil

	case ImageOpenedMsg:
		return m, m.setStatus("Opened image for "+msg.Name, false)

	case SearchDebouncedMsg:
		if msg.Seq == m.searchSeq && m.InputModal.IsVisible() {
			m.Browse.SetText(msg.Text)
		}
		return m, nil

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case ErrMsg:
		m.Logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)
	}

	return m, nil
}

// refresh pulls the current view and stored preferences into the model
func (m *Model) refresh() {
	prev := m.Current.Items
	m.Current = m.Browse.View()
	m.Styles = styles.ForTheme(string(m.Theme.Get()))
	m.Help.Styles.ShortKey = m.Styles.HelpKey
	m.Help.Styles.ShortDesc = m.Styles.HelpDesc
	m.Help.Styles.FullKey = m.Styles.HelpKey
	m.Help.Styles.FullDesc = m.Styles.HelpDesc
	m.Spinner.Style = m.Styles.Spinner

	m.Keys.Back.SetEnabled(m.History.CanGoBack())
	m.Keys.Forward.SetEnabled(m.History.CanGoForward())

	m.List.SetFavorites(m.Favorites.Snapshot())
	m.List.SetHighlight(m.Current.Query.Text)
	if !sameItems(prev, m.Current.Items) {
		m.List.SetItems(m.Current.Items)
	}

	// Each history entry remembers its own cursor
	if key := query.String(m.Current.Query); key != m.queryKey {
		m.queryKey = key
		m.List.SetCursor(m.History.Scroll())
	}
}

// sameItems reports whether two item slices are the same backing array
func sameItems(a, b []domain.Character) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// syncInspector points the inspector at the selected row and loads its
// detail when the row changed.
func (m *Model) syncInspector() tea.Cmd {
	if !m.ShowInspector {
		return nil
	}
	c, ok := m.List.Selected()
	if !ok {
		m.Inspector.SetItem(nil)
		return nil
	}
	m.Inspector.SetFavorite(m.Favorites.IsFavorite(c.ID))
	if m.Inspector.ItemID() == c.ID {
		m.Inspector.SetItem(&c)
		return nil
	}
	m.Inspector.SetItem(&c)
	m.Inspector.SetLoading()
	return LoadDetailCmd(m.Catalog, c.ID)
}

// cursorMoved records the cursor in history and follows it in the inspector
func (m *Model) cursorMoved() tea.Cmd {
	m.History.SetScroll(m.List.Cursor())
	return m.syncInspector()
}

// setStatus shows a footer message that clears itself
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq)
}

// updateLayout sizes components for the current window
func (m *Model) updateLayout() {
	contentHeight := max(m.Height-ChromeHeight, 1)
	if m.Current.Err != nil {
		contentHeight = max(contentHeight-1, 1)
	}

	listWidth := m.Width
	if m.ShowInspector {
		listWidth = max(m.Width*(100-InspectorPercent)/100, MinColumnWidth)
		m.Inspector.SetSize(max(m.Width-listWidth, 0), contentHeight)
	}
	m.List.SetSize(listWidth, contentHeight)
	m.Help.Width = m.Width
}
