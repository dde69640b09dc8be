// Package svc provides the comparison and merge services behind the CLI.
//
// Subpackages:
//   - codec: payload decoding for display
//   - compare: snapshot comparison and status classification
//   - diffview: selectable line models and selections
//   - merge: reconstruction of a merged record from selected lines
//   - patch: unified patch text generation
//   - session: one comparison between a primary and a secondary store
package svc
