package k8s

import "errors"

// ErrKubeconfigPathEmpty is returned when kubeconfig path is empty.
var ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")

// ErrContextNotFound is returned when the requested context is not in the kubeconfig.
var ErrContextNotFound = errors.New("context not found in kubeconfig")
