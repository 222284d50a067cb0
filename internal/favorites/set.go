package favorites

import "slices"

// Set is an immutable set of character ids that remembers insertion order.
// The zero value and nil are both the empty set.
type Set struct {
	ids   []int
	index map[int]struct{}
}

// NewSet builds a set from ids, dropping duplicates and non-positive ids.
func NewSet(ids ...int) *Set {
	s := &Set{index: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// Has reports whether id is in the set
func (s *Set) Has(id int) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Len returns the number of ids
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns a copy of the ids in insertion order
func (s *Set) IDs() []int {
	if s == nil {
		return nil
	}
	return slices.Clone(s.ids)
}

// Equal reports set equality. Order does not matter.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s == nil || o == nil {
		return true // both empty
	}
	for _, id := range s.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// Toggled returns a new set with id's membership flipped.
func (s *Set) Toggled(id int) *Set {
	if s.Has(id) {
		next := make([]int, 0, s.Len())
		for _, v := range s.ids {
			if v != id {
				next = append(next, v)
			}
		}
		return NewSet(next...)
	}
	return NewSet(append(s.IDs(), id)...)
}
