// Package v1alpha1 defines the ksync.yaml configuration: which two stores to
// compare, which kinds and namespaces to fetch, and how diffs are rendered.
package v1alpha1
