package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/citadel/internal/domain"
	"github.com/mmcdole/citadel/internal/tui/styles"
)

// Inspector shows the full record of one character. The detail is fetched
// separately from the list; until it arrives the list row is shown.
type Inspector struct {
	item     *domain.Character
	detail   *domain.Character
	loading  bool
	err      error
	favorite bool
	width    int
	height   int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetItem sets the list row to display. Changing the row drops any detail.
func (i *Inspector) SetItem(item *domain.Character) {
	if item != nil && i.item != nil && item.ID == i.item.ID {
		i.item = item
		return
	}
	i.item = item
	i.detail = nil
	i.err = nil
	i.loading = false
}

// SetLoading marks the detail for the current row as in flight
func (i *Inspector) SetLoading() {
	i.loading = true
	i.err = nil
}

// SetDetail stores the fetched record when it belongs to the current row
func (i *Inspector) SetDetail(id int, detail *domain.Character, err error) {
	if i.item == nil || i.item.ID != id {
		return
	}
	i.loading = false
	i.detail = detail
	i.err = err
}

// SetFavorite sets whether the shown character is a favorite
func (i *Inspector) SetFavorite(on bool) {
	i.favorite = on
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.item != nil
}

// ItemID returns the id of the shown character, or 0
func (i Inspector) ItemID() int {
	if i.item == nil {
		return 0
	}
	return i.item.ID
}

// View renders the component
func (i Inspector) View(st styles.Styles) string {
	// Border and padding take 5 columns
	contentWidth := max(i.width-5, 10)
	box := st.Inspector.Width(i.width - 1).Height(i.height)

	if i.item == nil {
		return box.Render(st.Dim.Render("Nothing selected"))
	}

	c := i.item
	if i.detail != nil {
		c = i.detail
	}

	star := st.Dim.Render(styles.NotFavoriteChar)
	if i.favorite {
		star = st.Favorite.Render(styles.FavoriteChar)
	}

	lines := []string{
		st.Accent.Render("Character"),
		"",
		star + " " + st.Title.Render(styles.Truncate(c.Name, contentWidth-2)),
		st.Dim.Render(fmt.Sprintf("#%d", c.ID)),
		"",
	}

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		lines = append(lines, st.Dim.Render(styles.Pad(label, 10))+styles.Truncate(value, contentWidth-10))
	}
	status := lipgloss.NewStyle().Foreground(st.StatusColor(c.Status)).Render(styles.StatusChar) + " " + c.Status
	lines = append(lines, st.Dim.Render(styles.Pad("Status", 10))+status)
	field("Species", c.Species)
	field("Type", c.Type)
	field("Gender", c.Gender)
	field("Origin", c.Origin)
	field("Location", c.Location)
	field("Episodes", fmt.Sprintf("%d", c.EpisodeCount()))

	if n := len(c.Episodes); n > 0 {
		lines = append(lines, "",
			st.Dim.Render("First seen ")+styles.Truncate(episodeLabel(c.Episodes[0]), contentWidth-11),
			st.Dim.Render("Last seen  ")+styles.Truncate(episodeLabel(c.Episodes[n-1]), contentWidth-11),
		)
	}
	if c.Image != "" {
		lines = append(lines, "", st.Dim.Render(styles.Truncate(c.Image, contentWidth)))
	}

	switch {
	case i.loading:
		lines = append(lines, "", st.Dim.Render("Loading details..."))
	case i.err != nil:
		lines = append(lines, "", st.Error.Render(styles.Truncate(i.err.Error(), contentWidth)))
	}

	return box.Render(strings.Join(lines, "\n"))
}

// episodeLabel turns an episode URL into "Episode N"
func episodeLabel(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return url
	}
	return "Episode " + url[idx+1:]
}
