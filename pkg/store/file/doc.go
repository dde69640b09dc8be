// Package file implements store.Store over a directory of YAML manifests.
//
// Every .yaml or .yml file below the root directory is read. Files may hold
// several documents and documents may be of kind List. Manifests without a
// namespace belong to the "default" namespace. Secret values are read from
// data as base64 text; stringData entries are encoded and take precedence,
// matching how the API server folds them.
package file
