package diffview

import (
	"maps"
	"slices"
	"strings"

	"github.com/devantler-tech/ksync/pkg/resource"
)

// Selection is an immutable set of selected diff lines. The zero value is empty.
type Selection struct {
	lines map[LineID]Line
}

// With returns a selection where line's membership equals selected. Lines that
// are not selectable are never added.
func (s Selection) With(line Line, selected bool) Selection {
	if selected == s.Has(line.ID) {
		return s
	}

	if selected && !line.Selectable() {
		return s
	}

	next := Selection{lines: maps.Clone(s.lines)}
	if next.lines == nil {
		next.lines = make(map[LineID]Line)
	}

	if selected {
		next.lines[line.ID] = line
	} else {
		delete(next.lines, line.ID)
	}

	return next
}

// Has reports whether id is selected.
func (s Selection) Has(id LineID) bool {
	_, ok := s.lines[id]

	return ok
}

// Len returns the number of selected lines.
func (s Selection) Len() int {
	return len(s.lines)
}

// Lines returns the selected lines ordered by scope, side and number.
func (s Selection) Lines() []Line {
	lines := slices.Collect(maps.Values(s.lines))

	slices.SortFunc(lines, func(a, b Line) int {
		if c := strings.Compare(a.ID.Scope.String(), b.ID.Scope.String()); c != 0 {
			return c
		}

		if c := strings.Compare(string(a.Side), string(b.Side)); c != 0 {
			return c
		}

		return a.Number - b.Number
	})

	return lines
}

// ForResource returns the selected lines belonging to identity, in Lines order.
func (s Selection) ForResource(identity resource.Identity) []Line {
	var lines []Line

	for _, line := range s.Lines() {
		if line.ID.Scope.Identity() == identity {
			lines = append(lines, line)
		}
	}

	return lines
}

// GroupByScope groups lines by their scope, keeping first-seen scope order.
func GroupByScope(lines []Line) ([]Scope, map[Scope][]Line) {
	var order []Scope

	groups := make(map[Scope][]Line)

	for _, line := range lines {
		scope := line.ID.Scope
		if _, ok := groups[scope]; !ok {
			order = append(order, scope)
		}

		groups[scope] = append(groups[scope], line)
	}

	return order, groups
}
