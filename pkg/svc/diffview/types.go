package diffview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/devantler-tech/ksync/pkg/resource"
)

// Side identifies the column a line belongs to.
type Side string

const (
	// SideLeft is the old (primary) side.
	SideLeft Side = "L"
	// SideRight is the new (secondary) side.
	SideRight Side = "R"
)

// LineType classifies a diff line.
type LineType string

const (
	// LineAddition is present only on the new side.
	LineAddition LineType = "addition"
	// LineDeletion is present only on the old side.
	LineDeletion LineType = "deletion"
	// LineContext is present on both sides.
	LineContext LineType = "context"
)

// Scope namespaces line ids. SubKey is set for per-key diffs.
type Scope struct {
	Kind      resource.Kind `json:"kind"`
	Namespace string        `json:"namespace"`
	Name      string        `json:"name"`
	SubKey    string        `json:"subKey,omitempty"`
}

// ScopeFor builds the scope of a resource's whole-blob diff, or of one key
// when subKey is not empty.
func ScopeFor(identity resource.Identity, subKey string) Scope {
	return Scope{
		Kind:      identity.Kind,
		Namespace: identity.Namespace,
		Name:      identity.Name,
		SubKey:    subKey,
	}
}

// Identity returns the resource the scope belongs to.
func (s Scope) Identity() resource.Identity {
	return resource.Identity{Kind: s.Kind, Namespace: s.Namespace, Name: s.Name}
}

// String renders kind/namespace/name, followed by [subKey] when set.
func (s Scope) String() string {
	base := s.Identity().String()
	if s.SubKey == "" {
		return base
	}

	return base + "[" + s.SubKey + "]"
}

// LineID identifies a line within its scope.
type LineID struct {
	Scope Scope  `json:"scope"`
	Local string `json:"local"`
}

// String renders the namespaced id, e.g. "ConfigMap/default/app-config[b]#R-1".
func (id LineID) String() string {
	return id.Scope.String() + "#" + id.Local
}

// LocalID formats the scope-local part of a line id.
func LocalID(side Side, number int) string {
	return fmt.Sprintf("%s-%d", side, number)
}

// ParseLocalID splits a scope-local id such as "L-12" into side and number.
func ParseLocalID(local string) (Side, int, error) {
	sideText, numberText, found := strings.Cut(strings.TrimSpace(local), "-")
	if !found {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidLineID, local)
	}

	side := Side(strings.ToUpper(sideText))
	if side != SideLeft && side != SideRight {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidLineID, local)
	}

	number, err := strconv.Atoi(numberText)
	if err != nil || number < 1 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidLineID, local)
	}

	return side, number, nil
}

// Line is a single addressable diff line.
type Line struct {
	ID      LineID   `json:"id"`
	Side    Side     `json:"side"`
	Number  int      `json:"number"`
	Type    LineType `json:"type"`
	Content string   `json:"content"`
}

// Selectable reports whether the line can be chosen for a merge. Context lines never can.
func (l Line) Selectable() bool {
	return l.Type == LineAddition || l.Type == LineDeletion
}
