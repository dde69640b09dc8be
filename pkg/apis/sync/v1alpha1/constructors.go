package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DefaultKubeconfigPath is the default path to the kubeconfig file.
const DefaultKubeconfigPath = "~/.kube/config"

// NewSync creates a Sync comparing the current kube context against itself
// until the user points the sides elsewhere.
func NewSync() *Sync {
	return &Sync{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: APIVersion,
		},
		Spec: NewSpec(),
	}
}

// NewSpec creates a Spec with default stores.
func NewSpec() Spec {
	return Spec{
		Primary:   NewKubeStore(),
		Secondary: NewKubeStore(),
	}
}

// NewKubeStore creates a kube store using the default kubeconfig and its current context.
func NewKubeStore() Store {
	return Store{
		Type:       StoreTypeKube,
		Kubeconfig: DefaultKubeconfigPath,
	}
}
