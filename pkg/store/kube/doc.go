// Package kube implements store.Store on top of a Kubernetes API server.
//
// Secret values are exposed base64 encoded so the engine treats them as
// opaque payloads. ConfigMap values are exposed as-is.
package kube
