// Package resource defines the snapshot model shared by the comparison,
// diff view and merge packages.
//
// A Snapshot is a point-in-time capture of a Secret- or ConfigMap-style record:
// its identity, an ordered string to string data mapping and an existence flag.
// Snapshots are validated when constructed with NewSnapshot and are treated as
// immutable afterwards; use DeepCopy before editing one.
//
// Canonical renders a DataMap as deterministic text (JSON, keys sorted, one key
// per line) and is the only form used for equality testing and diffing.
package resource
