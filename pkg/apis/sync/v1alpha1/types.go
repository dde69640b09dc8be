package v1alpha1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	// Group is the API group for ksync.
	Group = "ksync.devantler.tech"
	// Version is the API version for ksync.
	Version = "v1alpha1"
	// Kind is the kind for ksync configurations.
	Kind = "Sync"
	// APIVersion is the full API version for ksync.
	APIVersion = Group + "/" + Version
)

// Sync is a ksync configuration including API metadata and the desired comparison.
type Sync struct {
	metav1.TypeMeta `json:",inline" mapstructure:",squash"`

	Spec Spec `json:"spec,omitzero" mapstructure:"spec,omitempty"`
}

// Spec defines what to compare and how.
type Spec struct {
	Primary   Store `json:"primary,omitzero"`
	Secondary Store `json:"secondary,omitzero"`
	// Namespaces to compare. Empty compares all namespaces.
	Namespaces []string `json:"namespaces,omitzero"`
	// Kinds to compare. Empty compares Secrets and ConfigMaps.
	Kinds []string `json:"kinds,omitzero"`
	Diff  Diff     `json:"diff,omitzero"`
	Fetch Fetch    `json:"fetch,omitzero"`
}

// Store locates one side of the comparison.
type Store struct {
	Type StoreType `json:"type,omitzero"`
	// Kubeconfig and Context select the cluster of a kube store.
	Kubeconfig string `json:"kubeconfig,omitzero"`
	Context    string `json:"context,omitzero"`
	// Path is the manifest directory of a file store.
	Path string `json:"path,omitzero"`
}

// Diff controls patch rendering.
type Diff struct {
	// Decode shows opaque values decoded.
	Decode bool `json:"decode,omitzero"`
	// PerKey shows one diff per differing key for multi-entry kinds.
	PerKey bool `json:"perKey,omitzero"`
	// ContextLines bounds unchanged lines around changes. Zero shows whole texts.
	ContextLines int `json:"contextLines,omitzero"`
}

// Fetch controls how stores are read.
type Fetch struct {
	// Parallelism caps concurrent fetches. Zero picks a CPU based default.
	Parallelism int64 `json:"parallelism,omitzero"`
	// Timeout bounds each store request.
	Timeout metav1.Duration `json:"timeout,omitzero"`
	// RetryTimeout bounds retries of transient failures. Zero disables retries.
	RetryTimeout metav1.Duration `json:"retryTimeout,omitzero"`
	// RetryInterval is the base wait between retries.
	RetryInterval metav1.Duration `json:"retryInterval,omitzero"`
}
