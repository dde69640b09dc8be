// Package client holds transport helpers shared by store clients.
//
//   - netretry: retry of transient Kubernetes API and network failures
package client
