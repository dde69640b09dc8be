// Package utils provides utility packages for common operations.
//
//   - envvar: ${VAR} expansion in configuration values
//   - logging: logrus setup for diagnostics
//   - notify: Formatted message display with symbols, colors, and timing
//   - parallel: Bounded concurrent execution
package utils
