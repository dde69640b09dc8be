// Package compare provides a Comparator that classifies pairs of snapshots
// taken from the primary and secondary stores and, for differing pairs,
// attaches unified-diff patch text.
//
// Status is a pure function of the existence flags and the canonical form of
// each side's data. Per-key kinds additionally receive one patch per differing key.
package compare
