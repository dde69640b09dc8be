package session

import (
	"time"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/patch"
)

// Config controls what a session fetches and how it renders patches.
type Config struct {
	// Kinds to compare. Empty means every supported kind.
	Kinds []resource.Kind
	// Namespaces to compare. Empty means all namespaces.
	Namespaces []string
	// ContextLines bounds context in generated patches. Zero or less keeps
	// whole texts, which exact round-trips require.
	ContextLines int
	// Parallelism caps concurrent store fetches. Zero picks a CPU based default.
	Parallelism int64
	// RetryTimeout bounds retries of transient fetch failures. Zero disables retries.
	RetryTimeout time.Duration
	// RetryInterval is the base wait between fetch retries.
	RetryInterval time.Duration
	// PrimaryLabel and SecondaryLabel name the sides in patch headers.
	PrimaryLabel   string
	SecondaryLabel string
	// CacheSize bounds the number of parsed diff models kept in memory.
	CacheSize int
}

// DefaultConfig returns a configuration comparing every kind in every namespace
// with full-context patches.
func DefaultConfig() Config {
	return Config{
		Kinds:          resource.ValidKinds(),
		PrimaryLabel:   compare.DefaultPrimaryLabel,
		SecondaryLabel: compare.DefaultSecondaryLabel,
	}
}

// ConfigFromSpec maps a declarative Sync spec onto a session configuration.
func ConfigFromSpec(spec v1alpha1.Spec) (Config, error) {
	kinds, err := spec.ResourceKinds()
	if err != nil {
		return Config{}, err //nolint:wrapcheck // already names the kind
	}

	cfg := DefaultConfig()
	cfg.Kinds = kinds
	cfg.Namespaces = spec.Namespaces
	cfg.ContextLines = spec.Diff.ContextLines
	cfg.Parallelism = spec.Fetch.Parallelism
	cfg.RetryTimeout = spec.Fetch.RetryTimeout.Duration
	cfg.RetryInterval = spec.Fetch.RetryInterval.Duration

	return cfg, nil
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()

	if len(c.Kinds) == 0 {
		c.Kinds = defaults.Kinds
	}

	if c.PrimaryLabel == "" {
		c.PrimaryLabel = defaults.PrimaryLabel
	}

	if c.SecondaryLabel == "" {
		c.SecondaryLabel = defaults.SecondaryLabel
	}

	return c
}

// namespaces returns the namespaces to list, where "" lists every namespace.
func (c Config) namespaces() []string {
	if len(c.Namespaces) == 0 {
		return []string{""}
	}

	return c.Namespaces
}

func (c Config) generator() *patch.Generator {
	if c.ContextLines <= 0 {
		return patch.NewGenerator()
	}

	return patch.NewGenerator(patch.WithContext(c.ContextLines))
}
