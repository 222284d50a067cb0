// Package browse derives what the user sees from the address bar, the page
// cache and the favorites set.
package browse

import (
	"cmp"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmcdole/citadel/internal/domain"
)

// Membership reports whether an id is a favorite.
type Membership interface {
	Has(id int) bool
}

// Pipeline filters and orders a page for display.
// It is safe for concurrent use.
type Pipeline struct {
	mu       sync.Mutex // Collator is not safe for concurrent use
	collator *collate.Collator
}

// NewPipeline creates a pipeline comparing strings by the rules of locale,
// ignoring case and accents.
func NewPipeline(locale language.Tag) *Pipeline {
	return &Pipeline{
		collator: collate.New(locale, collate.IgnoreCase, collate.IgnoreDiacritics),
	}
}

// Apply returns items filtered to favorites (when favoritesOnly) and sorted
// by key. Ties keep their input order. items is never modified, and the
// result is always a fresh non-nil slice.
func (p *Pipeline) Apply(items []domain.Character, favs Membership, key domain.SortKey, favoritesOnly bool) []domain.Character {
	out := make([]domain.Character, 0, len(items))
	for _, c := range items {
		if favoritesOnly && (favs == nil || !favs.Has(c.ID)) {
			continue
		}
		out = append(out, c)
	}
	if len(out) < 2 {
		return out
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	slices.SortStableFunc(out, p.compareFunc(key))
	return out
}

func (p *Pipeline) compareFunc(key domain.SortKey) func(a, b domain.Character) int {
	text := func(field func(domain.Character) string) func(a, b domain.Character) int {
		return func(a, b domain.Character) int {
			return p.collator.CompareString(field(a), field(b))
		}
	}
	desc := func(f func(a, b domain.Character) int) func(a, b domain.Character) int {
		return func(a, b domain.Character) int { return f(b, a) }
	}

	byName := text(func(c domain.Character) string { return c.Name })
	byStatus := text(func(c domain.Character) string { return c.Status })
	bySpecies := text(func(c domain.Character) string { return c.Species })
	byGender := text(func(c domain.Character) string { return c.Gender })
	byID := func(a, b domain.Character) int { return cmp.Compare(a.ID, b.ID) }

	switch key {
	case domain.SortNameDesc:
		return desc(byName)
	case domain.SortIDAsc:
		return byID
	case domain.SortIDDesc:
		return desc(byID)
	case domain.SortStatusAsc:
		return byStatus
	case domain.SortStatusDesc:
		return desc(byStatus)
	case domain.SortSpeciesAsc:
		return bySpecies
	case domain.SortSpeciesDesc:
		return desc(bySpecies)
	case domain.SortGenderAsc:
		return byGender
	case domain.SortGenderDesc:
		return desc(byGender)
	case domain.SortEpisodesDesc:
		return func(a, b domain.Character) int {
			return cmp.Compare(b.EpisodeCount(), a.EpisodeCount())
		}
	default:
		return byName
	}
}
