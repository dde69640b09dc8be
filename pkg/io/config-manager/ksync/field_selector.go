package configmanager

import (
	"time"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// FieldSelector defines a field and its metadata for configuration management.
type FieldSelector[T any] struct {
	Selector     func(*T) any // Function that returns a pointer to the field
	Key          string       // Viper key of the field, also used for KSYNC_* environment variables
	Flag         string       // CLI flag bound to the field
	Description  string       // Human-readable description for CLI flags
	DefaultValue any          // Default value for the field
}

// StoreFieldSelectors returns the selectors configuring the store on side
// ("primary" or "secondary").
func StoreFieldSelectors(side string) []FieldSelector[v1alpha1.Sync] {
	store := func(c *v1alpha1.Sync) *v1alpha1.Store {
		if side == "secondary" {
			return &c.Spec.Secondary
		}

		return &c.Spec.Primary
	}

	return []FieldSelector[v1alpha1.Sync]{
		{
			Selector:     func(c *v1alpha1.Sync) any { return &store(c).Type },
			Key:          "spec." + side + ".type",
			Flag:         side + "-type",
			Description:  "Store type of the " + side + " side (kube, file)",
			DefaultValue: v1alpha1.StoreTypeKube,
		},
		{
			Selector:     func(c *v1alpha1.Sync) any { return &store(c).Kubeconfig },
			Key:          "spec." + side + ".kubeconfig",
			Flag:         side + "-kubeconfig",
			Description:  "Kubeconfig of the " + side + " kube store",
			DefaultValue: v1alpha1.DefaultKubeconfigPath,
		},
		{
			Selector:    func(c *v1alpha1.Sync) any { return &store(c).Context },
			Key:         "spec." + side + ".context",
			Flag:        side + "-context",
			Description: "Kubeconfig context of the " + side + " kube store (defaults to the current context)",
		},
		{
			Selector:    func(c *v1alpha1.Sync) any { return &store(c).Path },
			Key:         "spec." + side + ".path",
			Flag:        side + "-path",
			Description: "Manifest directory of the " + side + " file store",
		},
	}
}

// DefaultFieldSelectors returns every selector used by ksync commands.
func DefaultFieldSelectors() []FieldSelector[v1alpha1.Sync] {
	selectors := append(StoreFieldSelectors("primary"), StoreFieldSelectors("secondary")...)

	return append(selectors,
		FieldSelector[v1alpha1.Sync]{
			Selector:    func(c *v1alpha1.Sync) any { return &c.Spec.Namespaces },
			Key:         "spec.namespaces",
			Flag:        "namespace",
			Description: "Namespaces to compare (repeatable, defaults to all namespaces)",
		},
		FieldSelector[v1alpha1.Sync]{
			Selector:    func(c *v1alpha1.Sync) any { return &c.Spec.Kinds },
			Key:         "spec.kinds",
			Flag:        "kind",
			Description: "Kinds to compare (Secret, ConfigMap; defaults to both)",
		},
		FieldSelector[v1alpha1.Sync]{
			Selector:    func(c *v1alpha1.Sync) any { return &c.Spec.Diff.Decode },
			Key:         "spec.diff.decode",
			Flag:        "decode",
			Description: "Show base64 encoded Secret values decoded",
		},
		FieldSelector[v1alpha1.Sync]{
			Selector:    func(c *v1alpha1.Sync) any { return &c.Spec.Diff.PerKey },
			Key:         "spec.diff.perKey",
			Flag:        "per-key",
			Description: "Show one diff per changed key for ConfigMaps",
		},
		FieldSelector[v1alpha1.Sync]{
			Selector:    func(c *v1alpha1.Sync) any { return &c.Spec.Diff.ContextLines },
			Key:         "spec.diff.contextLines",
			Flag:        "context-lines",
			Description: "Unchanged lines shown around changes (0 shows whole values)",
		},
		FieldSelector[v1alpha1.Sync]{
			Selector:    func(c *v1alpha1.Sync) any { return &c.Spec.Fetch.Parallelism },
			Key:         "spec.fetch.parallelism",
			Flag:        "parallelism",
			Description: "Maximum concurrent store fetches (0 picks a default)",
		},
		FieldSelector[v1alpha1.Sync]{
			Selector:     func(c *v1alpha1.Sync) any { return &c.Spec.Fetch.Timeout },
			Key:          "spec.fetch.timeout",
			Flag:         "timeout",
			Description:  "Timeout of each store request",
			DefaultValue: metav1.Duration{Duration: 30 * time.Second},
		},
		FieldSelector[v1alpha1.Sync]{
			Selector:     func(c *v1alpha1.Sync) any { return &c.Spec.Fetch.RetryTimeout },
			Key:          "spec.fetch.retryTimeout",
			Flag:         "retry-timeout",
			Description:  "How long transient fetch failures are retried (0 disables retries)",
			DefaultValue: metav1.Duration{Duration: 30 * time.Second},
		},
	)
}
