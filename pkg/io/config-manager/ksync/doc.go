// Package configmanager provides configuration management for ksync v1alpha1.Sync configurations.
//
// Configuration priority: defaults < ksync.yaml < KSYNC_* environment variables < flags.
// Field selectors bind configuration fields to CLI flags and defaults.
//
// Note: This package shares the "configmanager" package name with its parent directory
// (pkg/io/config-manager). Import with an alias for clarity:
//
//	import ksyncconfigmanager "github.com/devantler-tech/ksync/pkg/io/config-manager/ksync"
package configmanager
