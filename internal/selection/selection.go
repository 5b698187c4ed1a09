// Package selection tracks multi-row selection over a visible list, the
// checkbox column of the candidate table.
package selection

// State summarises a selection against the visible rows.
type State string

const (
	None    State = "none"
	Partial State = "partial"
	All     State = "all"
)

// Set is a selection over an ordered list of visible row ids. Ids that are
// not visible can never be selected.
type Set struct {
	rows     []string
	visible  map[string]struct{}
	selected map[string]struct{}
}

func New(rows []string) *Set {
	s := &Set{
		visible:  make(map[string]struct{}, len(rows)),
		selected: make(map[string]struct{}),
	}
	for _, id := range rows {
		if _, dup := s.visible[id]; dup {
			continue
		}
		s.visible[id] = struct{}{}
		s.rows = append(s.rows, id)
	}
	return s
}

// SelectAll selects every visible row when checked and clears the
// selection otherwise.
func (s *Set) SelectAll(checked bool) {
	s.selected = make(map[string]struct{}, len(s.rows))
	if !checked {
		return
	}
	for _, id := range s.rows {
		s.selected[id] = struct{}{}
	}
}

// Toggle selects or deselects one row. It reports false for an id that is
// not visible.
func (s *Set) Toggle(id string, checked bool) bool {
	if _, ok := s.visible[id]; !ok {
		return false
	}
	if checked {
		s.selected[id] = struct{}{}
	} else {
		delete(s.selected, id)
	}
	return true
}

func (s *Set) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

func (s *Set) Len() int { return len(s.selected) }

// State is All only for a non-empty list with every row selected.
func (s *Set) State() State {
	switch n := len(s.selected); {
	case n == 0:
		return None
	case n == len(s.rows):
		return All
	default:
		return Partial
	}
}

// Selected returns the selected ids in row order.
func (s *Set) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for _, id := range s.rows {
		if _, ok := s.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Resolve builds the selection a bulk request describes: every row when
// all is set, minus exclude, otherwise just ids. Unknown ids are ignored.
func Resolve(rows []string, all bool, ids, exclude []string) *Set {
	s := New(rows)
	if all {
		s.SelectAll(true)
		for _, id := range exclude {
			s.Toggle(id, false)
		}
		return s
	}
	for _, id := range ids {
		s.Toggle(id, true)
	}
	return s
}
