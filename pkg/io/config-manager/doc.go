// Package configmanager defines the configuration loading contract shared by
// ksync configuration managers.
//
// Subpackages:
//   - ksync: viper backed loader for ksync.yaml
package configmanager
