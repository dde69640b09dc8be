package patch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FullContext keeps every unchanged line in a single hunk.
const FullContext = -1

const separator = "==================================================================="

// Body line prefixes.
const (
	PrefixContext  = ' '
	PrefixDeletion = '-'
	PrefixAddition = '+'
)

// KeyPatch is the patch text for a single key of a per-key comparison.
type KeyPatch struct {
	Key   string `json:"key"`
	Patch string `json:"patch"`
}

// Option configures a Generator.
type Option func(*Generator)

// WithContext limits the number of unchanged lines kept around each change.
// A negative value keeps the whole text.
func WithContext(lines int) Option {
	return func(g *Generator) {
		g.context = lines
	}
}

// Generator creates unified-diff text.
type Generator struct {
	context int
}

// NewGenerator returns a Generator producing full-context patches unless
// configured otherwise.
func NewGenerator(opts ...Option) *Generator {
	generator := &Generator{context: FullContext}
	for _, opt := range opts {
		opt(generator)
	}

	return generator
}

// CreatePatch diffs oldText against newText with full context.
func CreatePatch(label, oldText, newText, oldLabel, newLabel string) string {
	return NewGenerator().CreatePatch(label, oldText, newText, oldLabel, newLabel)
}

// CreatePatch diffs oldText against newText. The result is deterministic for
// identical inputs. When the texts are equal only the header is emitted.
func (g *Generator) CreatePatch(label, oldText, newText, oldLabel, newLabel string) string {
	var builder strings.Builder

	builder.WriteString("Index: " + label + "\n")
	builder.WriteString(separator + "\n")
	builder.WriteString(headerLine("---", label, oldLabel))
	builder.WriteString(headerLine("+++", label, newLabel))

	lines := diffLines(oldText, newText)

	for _, h := range buildHunks(lines, g.context) {
		h.write(&builder)
	}

	return builder.String()
}

// CreateKeyPatches diffs every key present in either map whose value or
// presence differs, using the key as the patch label. Keys with equal values
// are omitted. Patches are ordered by key.
func (g *Generator) CreateKeyPatches(oldData, newData resource.DataMap, oldLabel, newLabel string) []KeyPatch {
	keys := unionKeys(oldData, newData)

	var patches []KeyPatch

	for _, key := range keys {
		oldValue, inOld := oldData.Get(key)
		newValue, inNew := newData.Get(key)

		if inOld == inNew && oldValue == newValue {
			continue
		}

		patches = append(patches, KeyPatch{
			Key:   key,
			Patch: g.CreatePatch(key, oldValue, newValue, oldLabel, newLabel),
		})
	}

	return patches
}

// SplitLines splits text into lines such that strings.Join(lines, "\n")
// reproduces it. Empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}

func headerLine(marker, label, sideLabel string) string {
	if sideLabel == "" {
		return marker + " " + label + "\n"
	}

	return marker + " " + label + "\t" + sideLabel + "\n"
}

func unionKeys(first, second resource.DataMap) []string {
	keys := first.Keys()
	for _, key := range second.Keys() {
		if _, ok := first.Get(key); !ok {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys
}

type bodyLine struct {
	prefix byte
	text   string
}

// diffLines runs a line-mode diff and flattens the result into prefixed lines.
// Every input line is newline terminated before diffing so the last line of
// each text compares equal to the same line elsewhere.
func diffLines(oldText, newText string) []bodyLine {
	dmp := diffmatchpatch.New()

	oldChars, newChars, lineArray := dmp.DiffLinesToChars(terminate(oldText), terminate(newText))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineArray)

	var lines []bodyLine

	for _, d := range diffs {
		prefix := byte(PrefixContext)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = PrefixDeletion
		case diffmatchpatch.DiffInsert:
			prefix = PrefixAddition
		case diffmatchpatch.DiffEqual:
		}

		for _, text := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			lines = append(lines, bodyLine{prefix: prefix, text: text})
		}
	}

	return orderChanges(lines)
}

func terminate(text string) string {
	if text == "" {
		return ""
	}

	return text + "\n"
}

// orderChanges moves deletions ahead of additions within each run of changed
// lines, matching the conventional unified layout.
func orderChanges(lines []bodyLine) []bodyLine {
	out := make([]bodyLine, 0, len(lines))

	for start := 0; start < len(lines); {
		if lines[start].prefix == PrefixContext {
			out = append(out, lines[start])
			start++

			continue
		}

		end := start
		for end < len(lines) && lines[end].prefix != PrefixContext {
			end++
		}

		for _, prefix := range []byte{PrefixDeletion, PrefixAddition} {
			for _, l := range lines[start:end] {
				if l.prefix == prefix {
					out = append(out, l)
				}
			}
		}

		start = end
	}

	return out
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []bodyLine
}

func (h hunk) write(builder *strings.Builder) {
	fmt.Fprintf(builder, "@@ -%d,%d +%d,%d @@\n", h.oldStart, h.oldCount, h.newStart, h.newCount)

	for _, l := range h.lines {
		builder.WriteByte(l.prefix)
		builder.WriteString(l.text)
		builder.WriteByte('\n')
	}
}

// buildHunks groups changed lines into hunks with up to context unchanged
// lines on either side. Changes separated by at most twice the context share
// a hunk.
func buildHunks(lines []bodyLine, context int) []hunk {
	if !slices.ContainsFunc(lines, func(l bodyLine) bool { return l.prefix != PrefixContext }) {
		return nil
	}

	if context < 0 {
		return []hunk{newHunk(lines, 0, len(lines))}
	}

	var hunks []hunk

	for index := 0; index < len(lines); {
		for index < len(lines) && lines[index].prefix == PrefixContext {
			index++
		}

		if index == len(lines) {
			break
		}

		lastChange := index
		for next := index + 1; next < len(lines); next++ {
			if lines[next].prefix != PrefixContext {
				lastChange = next

				continue
			}

			if next-lastChange > 2*context {
				break
			}
		}

		start := max(0, index-context)
		end := min(len(lines), lastChange+context+1)

		hunks = append(hunks, newHunk(lines, start, end))
		index = end
	}

	return hunks
}

func newHunk(lines []bodyLine, start, end int) hunk {
	var oldBefore, newBefore int

	for _, l := range lines[:start] {
		if l.prefix != PrefixAddition {
			oldBefore++
		}

		if l.prefix != PrefixDeletion {
			newBefore++
		}
	}

	result := hunk{lines: lines[start:end]}

	for _, l := range result.lines {
		if l.prefix != PrefixAddition {
			result.oldCount++
		}

		if l.prefix != PrefixDeletion {
			result.newCount++
		}
	}

	result.oldStart = hunkStart(oldBefore, result.oldCount)
	result.newStart = hunkStart(newBefore, result.newCount)

	return result
}

// hunkStart follows the unified convention of pointing at the preceding line
// when a side contributes no lines.
func hunkStart(before, count int) int {
	if count == 0 {
		return before
	}

	return before + 1
}
