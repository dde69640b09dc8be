// Package fsutil provides utilities for filesystem operations.
//
// Key functionality:
//   - File writing: WriteNewFile
//   - Path operations: ExpandHomePath
//   - YAML manifests: IsYAMLFile, SplitYAMLDocuments
package fsutil
