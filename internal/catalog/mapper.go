package catalog

import (
	"slices"

	"github.com/mmcdole/citadel/internal/domain"
)

// MapCharacter converts an API character to a domain character
func MapCharacter(c Character) domain.Character {
	return domain.Character{
		ID:       c.ID,
		Name:     c.Name,
		Status:   c.Status,
		Species:  c.Species,
		Type:     c.Type,
		Gender:   c.Gender,
		Image:    c.Image,
		Episodes: slices.Clone(c.Episode),
		Origin:   c.Origin.Name,
		Location: c.Location.Name,
	}
}

// MapPage converts a search response to a domain page numbered number
func MapPage(resp PageResponse, number int) domain.Page {
	items := make([]domain.Character, 0, len(resp.Results))
	for _, c := range resp.Results {
		items = append(items, MapCharacter(c))
	}
	return domain.Page{
		Items:      items,
		TotalCount: resp.Info.Count,
		TotalPages: resp.Info.Pages,
		Number:     number,
	}
}
