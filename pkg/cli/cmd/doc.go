// Package cmd provides the command-line interface for ksync.
//
// The root command wires these subcommands:
//   - compare: list which records differ between the primary and secondary store
//   - diff: print unified diffs with selectable line ids
//   - merge: copy selected diff lines into one side
//   - version: print build information
package cmd
