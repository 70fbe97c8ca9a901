// Package session holds the interactive session state shared by the
// console commands: the active collection, filter and sort.
//
// State is created once at startup and passed by pointer to every command
// handler. It is only touched from the single dispatcher loop, so it needs
// no locking. Changing one part never resets another: selecting a new
// collection keeps the current filter and sort until the operator replaces
// them.
package session

import (
	"github.com/roach88/recordcompare/internal/query"
)

// State is the mutable cursor over collection, filter and sort.
type State struct {
	collection string
	filter     query.Filter
	sort       query.Sort
}

// New returns an empty State: no collection, match-all filter, natural order.
func New() *State {
	return &State{}
}

// Collection returns the active collection name, or "" when unset.
func (s *State) Collection() string {
	return s.collection
}

// HasCollection reports whether a collection is active.
func (s *State) HasCollection() bool {
	return s.collection != ""
}

// SetCollection replaces the active collection. Filter and sort are kept.
func (s *State) SetCollection(name string) {
	s.collection = name
}

// Filter returns the active filter; the zero Filter matches everything.
func (s *State) Filter() query.Filter {
	return s.filter
}

// SetFilter replaces the active filter wholesale. A zero Filter unsets it.
func (s *State) SetFilter(f query.Filter) {
	s.filter = f
}

// Sort returns the active sort; nil means natural order.
func (s *State) Sort() query.Sort {
	return s.sort
}

// SetSort replaces the active sort wholesale. An empty Sort unsets it.
func (s *State) SetSort(sort query.Sort) {
	if sort.IsZero() {
		s.sort = nil
		return
	}
	s.sort = sort
}

// Snapshot is a read-only copy of State, used for display and journaling.
type Snapshot struct {
	Collection string
	Filter     string
	Sort       string
}

// Snapshot returns the display form of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Collection: s.collection,
		Filter:     s.filter.String(),
		Sort:       s.sort.String(),
	}
}
