package blockgraph

import (
	"sort"
	"strings"

	"github.com/ShaiW/blanim/domain/model"
)

// IDSet implements a basic unsorted set of block ids.
type IDSet map[model.BlockID]struct{}

// NewIDSet creates a new, empty IDSet.
func NewIDSet() IDSet {
	return IDSet{}
}

// IDSetFromSlice converts a slice of ids into an unordered set.
func IDSetFromSlice(ids ...model.BlockID) IDSet {
	set := NewIDSet()
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

// Add adds an id to this set.
func (s IDSet) Add(id model.BlockID) {
	s[id] = struct{}{}
}

// Remove removes an id from this set, if it exists.
func (s IDSet) Remove(id model.BlockID) {
	delete(s, id)
}

// Contains returns true iff this set contains id.
func (s IDSet) Contains(id model.BlockID) bool {
	_, ok := s[id]
	return ok
}

// Clone returns a copy of this set.
func (s IDSet) Clone() IDSet {
	clone := NewIDSet()
	for id := range s {
		clone.Add(id)
	}
	return clone
}

// Subtract returns the difference between this set and the other set.
func (s IDSet) Subtract(other IDSet) IDSet {
	diff := NewIDSet()
	for id := range s {
		if !other.Contains(id) {
			diff.Add(id)
		}
	}
	return diff
}

// Union returns a set that contains all ids included in this set, the other
// set, or both.
func (s IDSet) Union(other IDSet) IDSet {
	union := s.Clone()
	for id := range other {
		union.Add(id)
	}
	return union
}

// ToSortedSlice converts this set into a slice sorted by the BlockID total
// order, so that iteration over set contents stays deterministic.
func (s IDSet) ToSortedSlice() []model.BlockID {
	slice := make([]model.BlockID, 0, len(s))
	for id := range s {
		slice = append(slice, id)
	}
	sort.Slice(slice, func(i, j int) bool {
		return slice[i].Less(slice[j])
	})
	return slice
}

func (s IDSet) String() string {
	ids := make([]string, 0, len(s))
	for _, id := range s.ToSortedSlice() {
		ids = append(ids, string(id))
	}
	return strings.Join(ids, ",")
}
