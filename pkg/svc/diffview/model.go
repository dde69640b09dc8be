package diffview

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidLineID is returned when a scope-local line id cannot be parsed.
var ErrInvalidLineID = errors.New("invalid line id")

var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Model is the parsed, read-only form of one patch.
type Model struct {
	Scope     Scope
	PatchText string
	Left      []Line
	Right     []Line

	index map[string]Line
}

// ID identifies the model within a session.
func (m *Model) ID() string {
	return m.Scope.String()
}

// Line looks up a line by its scope-local id. Ids are matched case
// insensitively and without leading zeros.
func (m *Model) Line(local string) (Line, bool) {
	side, number, err := ParseLocalID(local)
	if err != nil {
		return Line{}, false
	}

	line, ok := m.index[LocalID(side, number)]

	return line, ok
}

// Changes returns the selectable lines: deletions followed by additions.
func (m *Model) Changes() []Line {
	var changes []Line

	for _, line := range m.Left {
		if line.Selectable() {
			changes = append(changes, line)
		}
	}

	for _, line := range m.Right {
		if line.Selectable() {
			changes = append(changes, line)
		}
	}

	return changes
}

// LeftText joins the left-side contents. For full-context patches this
// reproduces the old text exactly.
func (m *Model) LeftText() string {
	return joinContent(m.Left)
}

// RightText joins the right-side contents. For full-context patches this
// reproduces the new text exactly.
func (m *Model) RightText() string {
	return joinContent(m.Right)
}

// Toggle flips the membership of an addition or deletion line. Context lines
// and unknown ids leave the selection unchanged.
func (m *Model) Toggle(selection Selection, local string) Selection {
	line, ok := m.Line(local)
	if !ok {
		return selection
	}

	return selection.With(line, !selection.Has(line.ID))
}

// Parse turns patch text into a Model. Header lines (Index, separator,
// ---/+++ labels) and hunk markers are discarded; body lines are numbered per
// side starting at each hunk's declared position.
func Parse(scope Scope, patchText string) *Model {
	model := &Model{
		Scope:     scope,
		PatchText: patchText,
		index:     make(map[string]Line),
	}

	var (
		inHunk                 bool
		oldNumber, newNumber   int
		oldPending, newPending int
	)

	for _, raw := range strings.Split(strings.TrimSuffix(patchText, "\n"), "\n") {
		if !inHunk || (oldPending <= 0 && newPending <= 0) {
			inHunk = false

			header := hunkHeaderPattern.FindStringSubmatch(raw)
			if header == nil {
				continue
			}

			oldNumber, oldPending = hunkPosition(header[1], header[2])
			newNumber, newPending = hunkPosition(header[3], header[4])
			inHunk = true

			continue
		}

		if strings.HasPrefix(raw, `\`) {
			continue
		}

		prefix, content := byte(' '), ""
		if raw != "" {
			prefix, content = raw[0], raw[1:]
		}

		switch prefix {
		case '-':
			oldNumber++
			oldPending--
			model.add(SideLeft, oldNumber, LineDeletion, content)
		case '+':
			newNumber++
			newPending--
			model.add(SideRight, newNumber, LineAddition, content)
		case ' ':
			oldNumber++
			newNumber++
			oldPending--
			newPending--
			model.add(SideLeft, oldNumber, LineContext, content)
			model.add(SideRight, newNumber, LineContext, content)
		}
	}

	return model
}

func (m *Model) add(side Side, number int, lineType LineType, content string) {
	line := Line{
		ID:      LineID{Scope: m.Scope, Local: LocalID(side, number)},
		Side:    side,
		Number:  number,
		Type:    lineType,
		Content: content,
	}

	if side == SideLeft {
		m.Left = append(m.Left, line)
	} else {
		m.Right = append(m.Right, line)
	}

	m.index[line.ID.Local] = line
}

// hunkPosition returns the line number preceding the hunk's first line and
// the number of lines the hunk spans on that side. An omitted count means one.
func hunkPosition(startText, countText string) (int, int) {
	start, _ := strconv.Atoi(startText)

	count := 1
	if countText != "" {
		count, _ = strconv.Atoi(countText)
	}

	if count == 0 {
		return start, 0
	}

	return start - 1, count
}

func joinContent(lines []Line) string {
	contents := make([]string, len(lines))
	for i, line := range lines {
		contents[i] = line.Content
	}

	return strings.Join(contents, "\n")
}
