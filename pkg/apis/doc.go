// Package apis provides API type definitions for ksync configuration.
//
// This package contains versioned API types following Kubernetes API conventions:
//
//   - sync: Sync configuration naming the two stores and the comparison options
package apis
