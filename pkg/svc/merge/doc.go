// Package merge rebuilds a destination snapshot from a selection of diff lines.
//
// Selections are grouped by scope. Per-key scopes copy the whole source value
// of that key. Whole-blob scopes recover top-level keys from the selected
// lines' `"<key>":` text; recovered keys are copied from the source and, when
// nothing can be recovered, the destination data is replaced by the source
// data. Line-level text does not align with key boundaries, so whole-blob
// reconstruction is a heuristic rather than a structural patch.
//
// Key overwrites are applied to a deep copy of the destination as a JSON merge
// patch (RFC 7386). Merges always use the original stored values, never the
// decoded display form.
package merge
