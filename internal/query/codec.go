// Package query maps a BrowseQuery to and from address-bar parameters.
package query

import (
	"net/url"
	"strconv"

	"github.com/mmcdole/citadel/internal/domain"
)

// Address-bar parameter names
const (
	ParamPage = "page"
	ParamText = "q"
	ParamSort = "sort"
	ParamFav  = "fav"
)

// Decode reads a BrowseQuery from params. Missing or invalid values fall
// back to defaults; Decode never fails.
func Decode(params url.Values) domain.BrowseQuery {
	q := domain.DefaultQuery()

	if p, err := strconv.Atoi(params.Get(ParamPage)); err == nil && p > 1 {
		q.Page = p
	}

	q.Text = params.Get(ParamText)

	for _, field := range domain.FilterFields {
		if v := params.Get(field); v != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[field] = v
		}
	}

	// Unknown tokens resolve to the default sort
	q.Sort, _ = domain.ParseSortKey(params.Get(ParamSort))

	if fav, err := strconv.ParseBool(params.Get(ParamFav)); err == nil {
		q.FavoritesOnly = fav
	}

	return q
}

// Encode writes q onto a copy of base. Parameters Encode does not own are
// preserved. Keys whose value is empty, false or the default are removed;
// page is always written.
func Encode(q domain.BrowseQuery, base url.Values) url.Values {
	next := url.Values{}
	for k, v := range base {
		next[k] = append([]string(nil), v...)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	next.Set(ParamPage, strconv.Itoa(page))

	setOrDelete(next, ParamText, q.Text)

	for _, field := range domain.FilterFields {
		setOrDelete(next, field, q.Filters[field])
	}

	if q.Sort == "" || q.Sort == domain.DefaultSort {
		next.Del(ParamSort)
	} else {
		next.Set(ParamSort, string(q.Sort))
	}

	if q.FavoritesOnly {
		next.Set(ParamFav, "1")
	} else {
		next.Del(ParamFav)
	}

	return next
}

// String renders q as a canonical query string (no leading "?").
func String(q domain.BrowseQuery) string {
	return Encode(q, nil).Encode()
}

// Parse decodes a raw query string such as "page=2&q=rick". A leading "?"
// is accepted. Malformed input yields the default query.
func Parse(raw string) domain.BrowseQuery {
	params, err := ParseParams(raw)
	if err != nil {
		return domain.DefaultQuery()
	}
	return Decode(params)
}

// ParseParams parses a raw query string into parameters.
func ParseParams(raw string) (url.Values, error) {
	if len(raw) > 0 && raw[0] == '?' {
		raw = raw[1:]
	}
	return url.ParseQuery(raw)
}

func setOrDelete(v url.Values, key, value string) {
	if value == "" {
		v.Del(key)
		return
	}
	v.Set(key, value)
}
