package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/devantler-tech/ksync/pkg/resource"
)

// Operation names used in TransportError.
const (
	OpList  = "list"
	OpApply = "apply"
)

// ErrAlreadyExists is returned by ApplyResource when the record already exists.
var ErrAlreadyExists = errors.New("resource already exists")

// Store is a source of key-value records.
type Store interface {
	// Name returns a short human readable description of the store.
	Name() string
	// ListResources returns every record of kind in namespace. An empty
	// namespace lists all namespaces.
	ListResources(ctx context.Context, kind resource.Kind, namespace string) ([]resource.Snapshot, error)
	// ApplyResource creates snapshot in namespace. Existing records are never updated.
	ApplyResource(ctx context.Context, kind resource.Kind, namespace string, snapshot resource.Snapshot) error
}

// TransportError wraps a failure reported by a Store.
type TransportError struct {
	Store     string
	Op        string
	Kind      resource.Kind
	Namespace string
	Name      string
	Err       error
}

// Error implements error.
func (e *TransportError) Error() string {
	target := fmt.Sprintf("%s in namespace %q", e.Kind, e.Namespace)
	if e.Name != "" {
		target = fmt.Sprintf("%s/%s/%s", e.Kind, e.Namespace, e.Name)
	}

	return fmt.Sprintf("%s: %s %s: %v", e.Store, e.Op, target, e.Err)
}

// Unwrap returns the underlying failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err carries a TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError

	return errors.As(err, &transportErr)
}

// NewListError wraps err as a failed list of kind in namespace.
func NewListError(store string, kind resource.Kind, namespace string, err error) *TransportError {
	return &TransportError{Store: store, Op: OpList, Kind: kind, Namespace: namespace, Err: err}
}

// NewApplyError wraps err as a failed create of snapshot in namespace.
func NewApplyError(store string, namespace string, snapshot resource.Snapshot, err error) *TransportError {
	return &TransportError{
		Store:     store,
		Op:        OpApply,
		Kind:      snapshot.Kind,
		Namespace: namespace,
		Name:      snapshot.Name,
		Err:       err,
	}
}
