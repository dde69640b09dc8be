package storefactory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	"github.com/devantler-tech/ksync/pkg/fsutil"
	"github.com/devantler-tech/ksync/pkg/k8s"
	"github.com/devantler-tech/ksync/pkg/store"
	filestore "github.com/devantler-tech/ksync/pkg/store/file"
	kubestore "github.com/devantler-tech/ksync/pkg/store/kube"
	"github.com/devantler-tech/ksync/pkg/utils/envvar"
)

// ErrUnsupportedStoreType is returned when a store type has no implementation.
var ErrUnsupportedStoreType = errors.New("unsupported store type")

// Factory creates stores from their configuration.
type Factory interface {
	Create(ctx context.Context, name string, spec v1alpha1.Store, timeout time.Duration) (store.Store, error)
}

// DefaultFactory creates kube stores backed by client-go and file stores
// backed by a manifest directory.
type DefaultFactory struct{}

// Create builds the store described by spec and names it name.
// ${VAR} references in paths and the context are expanded first.
func (DefaultFactory) Create(
	_ context.Context,
	name string,
	spec v1alpha1.Store,
	timeout time.Duration,
) (store.Store, error) {
	spec.Kubeconfig = envvar.Expand(spec.Kubeconfig)
	spec.Context = envvar.Expand(spec.Context)
	spec.Path = envvar.Expand(spec.Path)

	switch spec.Type {
	case v1alpha1.StoreTypeKube:
		return createKubeStore(name, spec, timeout)
	case v1alpha1.StoreTypeFile:
		return createFileStore(name, spec)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStoreType, spec.Type)
	}
}

func createKubeStore(name string, spec v1alpha1.Store, timeout time.Duration) (store.Store, error) {
	kubeconfig := spec.Kubeconfig
	if kubeconfig == "" {
		kubeconfig = v1alpha1.DefaultKubeconfigPath
	}

	kubeconfig, err := fsutil.ExpandHomePath(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("expand kubeconfig path: %w", err)
	}

	err = k8s.EnsureContext(kubeconfig, spec.Context)
	if err != nil {
		return nil, fmt.Errorf("%s store: %w", name, err)
	}

	clientset, err := k8s.NewClientset(kubeconfig, spec.Context, timeout)
	if err != nil {
		return nil, fmt.Errorf("%s store: %w", name, err)
	}

	return kubestore.NewStore(name, clientset), nil
}

func createFileStore(name string, spec v1alpha1.Store) (store.Store, error) {
	path, err := fsutil.ExpandHomePath(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("expand store path: %w", err)
	}

	return filestore.NewStore(name, path), nil
}
