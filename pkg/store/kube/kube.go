package kube

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/store"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// ErrInvalidSecretValue is returned when a Secret value to apply is not valid base64.
var ErrInvalidSecretValue = errors.New("secret value is not valid base64")

// Store reads and creates Secrets and ConfigMaps through a clientset.
type Store struct {
	name      string
	clientset kubernetes.Interface
}

// NewStore creates a store named name backed by clientset.
func NewStore(name string, clientset kubernetes.Interface) *Store {
	return &Store{name: name, clientset: clientset}
}

// Name returns the store name.
func (s *Store) Name() string {
	return s.name
}

// ListResources lists every record of kind in namespace.
func (s *Store) ListResources(
	ctx context.Context,
	kind resource.Kind,
	namespace string,
) ([]resource.Snapshot, error) {
	var (
		snapshots []resource.Snapshot
		err       error
	)

	switch kind {
	case resource.KindSecret:
		snapshots, err = s.listSecrets(ctx, namespace)
	case resource.KindConfigMap:
		snapshots, err = s.listConfigMaps(ctx, namespace)
	default:
		err = fmt.Errorf("%w: %q", resource.ErrUnknownKind, kind)
	}

	if err != nil {
		return nil, store.NewListError(s.name, kind, namespace, err)
	}

	return snapshots, nil
}

// ApplyResource creates snapshot in namespace. An existing record yields
// store.ErrAlreadyExists.
func (s *Store) ApplyResource(
	ctx context.Context,
	kind resource.Kind,
	namespace string,
	snapshot resource.Snapshot,
) error {
	var err error

	switch kind {
	case resource.KindSecret:
		err = s.createSecret(ctx, namespace, snapshot)
	case resource.KindConfigMap:
		err = s.createConfigMap(ctx, namespace, snapshot)
	default:
		err = fmt.Errorf("%w: %q", resource.ErrUnknownKind, kind)
	}

	if apierrors.IsAlreadyExists(err) {
		err = fmt.Errorf("%w: %w", store.ErrAlreadyExists, err)
	}

	if err != nil {
		return store.NewApplyError(s.name, namespace, snapshot, err)
	}

	return nil
}

func (s *Store) listSecrets(ctx context.Context, namespace string) ([]resource.Snapshot, error) {
	list, err := s.clientset.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}

	snapshots := make([]resource.Snapshot, 0, len(list.Items))

	for _, secret := range list.Items {
		data := make(map[string]string, len(secret.Data))
		for key, value := range secret.Data {
			data[key] = base64.StdEncoding.EncodeToString(value)
		}

		snapshot, err := resource.NewSnapshot(
			resource.KindSecret,
			secret.Namespace,
			secret.Name,
			resource.NewDataMap(data),
		)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

func (s *Store) listConfigMaps(ctx context.Context, namespace string) ([]resource.Snapshot, error) {
	list, err := s.clientset.CoreV1().ConfigMaps(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list configmaps: %w", err)
	}

	snapshots := make([]resource.Snapshot, 0, len(list.Items))

	for _, configMap := range list.Items {
		snapshot, err := resource.NewSnapshot(
			resource.KindConfigMap,
			configMap.Namespace,
			configMap.Name,
			resource.NewDataMap(configMap.Data),
		)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

func (s *Store) createSecret(ctx context.Context, namespace string, snapshot resource.Snapshot) error {
	data := make(map[string][]byte, snapshot.Data.Len())

	for _, key := range snapshot.Data.Keys() {
		value, _ := snapshot.Data.Get(key)

		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return fmt.Errorf("%w: key %q: %w", ErrInvalidSecretValue, key, err)
		}

		data[key] = decoded
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: snapshot.Name, Namespace: namespace},
		Data:       data,
	}

	_, err := s.clientset.CoreV1().Secrets(namespace).Create(ctx, secret, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("create secret: %w", err)
	}

	return nil
}

func (s *Store) createConfigMap(ctx context.Context, namespace string, snapshot resource.Snapshot) error {
	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: snapshot.Name, Namespace: namespace},
		Data:       snapshot.Data.ToMap(),
	}

	_, err := s.clientset.CoreV1().ConfigMaps(namespace).Create(ctx, configMap, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("create configmap: %w", err)
	}

	return nil
}
