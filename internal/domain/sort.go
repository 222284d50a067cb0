package domain

// SortKey selects the client-side ordering of a page.
type SortKey string

const (
	SortNameAsc      SortKey = "name-asc"
	SortNameDesc     SortKey = "name-desc"
	SortIDAsc        SortKey = "id-asc"
	SortIDDesc       SortKey = "id-desc"
	SortStatusAsc    SortKey = "status-asc"
	SortStatusDesc   SortKey = "status-desc"
	SortSpeciesAsc   SortKey = "species-asc"
	SortSpeciesDesc  SortKey = "species-desc"
	SortGenderAsc    SortKey = "gender-asc"
	SortGenderDesc   SortKey = "gender-desc"
	SortEpisodesDesc SortKey = "episodes-desc" // No ascending variant
)

// DefaultSort is used when no (or an unknown) sort key is given
const DefaultSort = SortNameAsc

// SortKeys returns every sort key in menu order
func SortKeys() []SortKey {
	return []SortKey{
		SortNameAsc, SortNameDesc,
		SortIDAsc, SortIDDesc,
		SortStatusAsc, SortStatusDesc,
		SortSpeciesAsc, SortSpeciesDesc,
		SortGenderAsc, SortGenderDesc,
		SortEpisodesDesc,
	}
}

// ParseSortKey returns the key for s, or DefaultSort and false when s is unknown
func ParseSortKey(s string) (SortKey, bool) {
	for _, k := range SortKeys() {
		if string(k) == s {
			return k, true
		}
	}
	return DefaultSort, false
}

// String returns the wire form of the key
func (k SortKey) String() string {
	return string(k)
}

// Label returns the display name for the sort key
func (k SortKey) Label() string {
	switch k {
	case SortNameAsc:
		return "Name ↑"
	case SortNameDesc:
		return "Name ↓"
	case SortIDAsc:
		return "ID ↑"
	case SortIDDesc:
		return "ID ↓"
	case SortStatusAsc:
		return "Status A→Z"
	case SortStatusDesc:
		return "Status Z→A"
	case SortSpeciesAsc:
		return "Species A→Z"
	case SortSpeciesDesc:
		return "Species Z→A"
	case SortGenderAsc:
		return "Gender A→Z"
	case SortGenderDesc:
		return "Gender Z→A"
	case SortEpisodesDesc:
		return "Most episodes"
	default:
		return "Unknown"
	}
}
