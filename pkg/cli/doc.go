// Package cli provides the command tree and command-level error handling.
//
//   - cli/cmd: cobra commands (compare, diff, merge, version)
//   - cli/ui/errorhandler: error capture, hints and exit codes
package cli
