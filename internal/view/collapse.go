package view

import "slices"

// CollapseSet holds the ids of comments whose replies are hidden. It lives
// only as long as the view that owns it.
type CollapseSet struct {
	ids map[int64]struct{}
}

func NewCollapseSet() *CollapseSet {
	return &CollapseSet{ids: make(map[int64]struct{})}
}

func (s *CollapseSet) Collapse(id int64) {
	s.ids[id] = struct{}{}
}

func (s *CollapseSet) Expand(id int64) {
	delete(s.ids, id)
}

// Toggle flips id and reports whether it is collapsed afterwards.
func (s *CollapseSet) Toggle(id int64) bool {
	if s.IsCollapsed(id) {
		s.Expand(id)
		return false
	}
	s.Collapse(id)
	return true
}

func (s *CollapseSet) IsCollapsed(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *CollapseSet) Len() int {
	return len(s.ids)
}

func (s *CollapseSet) Reset() {
	clear(s.ids)
}

func (s *CollapseSet) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
