// Package io groups input handling for ksync.
//
// Subpackages:
//   - config-manager: Configuration loading and management
package io
