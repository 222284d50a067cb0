package domain

import (
	"maps"
	"net/url"
	"strconv"
)

// Filter fields understood by the remote search endpoint.
const (
	FieldStatus  = "status"
	FieldGender  = "gender"
	FieldSpecies = "species"
	FieldType    = "type"
)

// FilterFields lists the filter fields in wire order.
var FilterFields = []string{FieldStatus, FieldGender, FieldSpecies, FieldType}

// IsFilterField reports whether name is a known filter field
func IsFilterField(name string) bool {
	for _, f := range FilterFields {
		if f == name {
			return true
		}
	}
	return false
}

// Status and gender values offered by the catalog. Species and type are free text.
var (
	StatusOptions = []string{"alive", "dead", "unknown"}
	GenderOptions = []string{"female", "male", "genderless", "unknown"}

	// SpeciesOptions are the species the catalog commonly uses. Any value is accepted.
	SpeciesOptions = []string{
		"Human", "Alien", "Humanoid", "Robot", "Animal", "Cronenberg",
		"Mythological Creature", "Poopybutthole", "Disease", "unknown",
	}
)

// BrowseQuery is the canonical browsing state mirrored in the address bar.
// Values are treated as immutable: the With* methods return modified copies.
type BrowseQuery struct {
	Page          int               // Always >= 1
	Text          string            // Name search
	Filters       map[string]string // Unset fields are absent, never ""
	Sort          SortKey
	FavoritesOnly bool
}

// DefaultQuery returns the query used when the address bar is empty
func DefaultQuery() BrowseQuery {
	return BrowseQuery{Page: 1, Sort: DefaultSort}
}

// Filter returns the value of a filter field, or "" when unset
func (q BrowseQuery) Filter(field string) string {
	return q.Filters[field]
}

// WithPage moves to page p. Pages below 1 are clamped.
func (q BrowseQuery) WithPage(p int) BrowseQuery {
	if p < 1 {
		p = 1
	}
	q.Filters = maps.Clone(q.Filters)
	q.Page = p
	return q
}

// WithText changes the name search and resets to the first page.
func (q BrowseQuery) WithText(text string) BrowseQuery {
	q.Filters = maps.Clone(q.Filters)
	q.Text = text
	q.Page = 1
	return q
}

// WithFilter sets (or clears, when value is "") a filter field and resets to the first page.
func (q BrowseQuery) WithFilter(field, value string) BrowseQuery {
	next := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		if k != field {
			next[k] = v
		}
	}
	if value != "" {
		next[field] = value
	}
	if len(next) == 0 {
		next = nil
	}
	q.Filters = next
	q.Page = 1
	return q
}

// WithoutFilters clears every filter field and resets to the first page.
func (q BrowseQuery) WithoutFilters() BrowseQuery {
	q.Filters = nil
	q.Page = 1
	return q
}

// WithSort changes the client-side ordering. The page is kept.
func (q BrowseQuery) WithSort(key SortKey) BrowseQuery {
	q.Filters = maps.Clone(q.Filters)
	q.Sort = key
	return q
}

// WithFavoritesOnly toggles the favorites-only view and resets to the first page.
func (q BrowseQuery) WithFavoritesOnly(on bool) BrowseQuery {
	q.Filters = maps.Clone(q.Filters)
	q.FavoritesOnly = on
	q.Page = 1
	return q
}

// Equal reports whether two queries describe the same browsing state
func (q BrowseQuery) Equal(o BrowseQuery) bool {
	if q.Page != o.Page || q.Text != o.Text || q.Sort != o.Sort || q.FavoritesOnly != o.FavoritesOnly {
		return false
	}
	if len(q.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range q.Filters {
		if ov, ok := o.Filters[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Request returns the part of the query the remote search depends on.
func (q BrowseQuery) Request() PageRequest {
	return PageRequest{Page: q.Page, Text: q.Text, Filters: maps.Clone(q.Filters)}
}

// PageRequest is the cache-relevant subset of a BrowseQuery. Sort and
// favorites-only are applied client side and do not take part.
type PageRequest struct {
	Page    int
	Text    string
	Filters map[string]string
}

// Params returns the remote query parameters for this request.
func (r PageRequest) Params() url.Values {
	v := url.Values{}
	page := r.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if r.Text != "" {
		v.Set("name", r.Text)
	}
	for _, f := range FilterFields {
		if val := r.Filters[f]; val != "" {
			v.Set(f, val)
		}
	}
	return v
}

// Key returns a canonical identifier: equal requests produce equal keys.
func (r PageRequest) Key() string {
	// url.Values.Encode sorts by key
	return r.Params().Encode()
}
