// Package diffview parses unified-diff text into addressable, selectable lines.
//
// A Model holds two parallel sequences: Left (old side) and Right (new side).
// Deletions appear only on the left, additions only on the right and context
// lines on both. Each line is identified by its side and 1-based number
// ("L-12", "R-7"), namespaced by a Scope so several models can be shown and
// selected together without collisions. Parsing is deterministic: the same
// patch text always yields the same ids.
//
// Selection is an immutable set of chosen lines. Model.Toggle and
// Selection.With return new selections and never mutate their receivers.
package diffview
