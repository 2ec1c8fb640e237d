package hierarchy

import (
	"sort"
	"strings"
)

// IDSet is a set of node ids.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// ParseIDs reads a comma separated id list as produced by
// Tree.SelectedIDs. Empty entries are ignored.
func ParseIDs(list string) IDSet {
	s := NewIDSet()
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			s.Add(id)
		}
	}
	return s
}

// Add adds id to s.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Del removes id from s.
func (s IDSet) Del(id string) {
	delete(s, id)
}

// Contains reports membership of id in s. A nil set contains nothing.
func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Equals reports whether s and t hold the same ids.
func (s IDSet) Equals(t IDSet) bool {
	if len(s) != len(t) {
		return false
	}
	for x := range t {
		if _, ok := s[x]; !ok {
			return false
		}
	}
	return true
}

func (s IDSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for x := range s {
		elems = append(elems, x)
	}
	sort.Strings(elems)
	return elems
}

func (s IDSet) String() string {
	return strings.Join(s.Elements(), ",")
}
