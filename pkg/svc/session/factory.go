package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	storefactory "github.com/devantler-tech/ksync/pkg/store/factory"
	"github.com/sirupsen/logrus"
)

// ErrConfigRequired is returned when a session is opened without configuration.
var ErrConfigRequired = errors.New("sync configuration is required")

// Factory opens sessions from a Sync configuration.
type Factory interface {
	Open(ctx context.Context, config *v1alpha1.Sync) (*Session, error)
}

// DefaultFactory builds both stores with Stores and opens a session over them.
type DefaultFactory struct {
	Stores storefactory.Factory
	Logger logrus.FieldLogger
}

// Open builds the primary and secondary stores and returns a new session.
func (f DefaultFactory) Open(ctx context.Context, config *v1alpha1.Sync) (*Session, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	cfg, err := ConfigFromSpec(config.Spec)
	if err != nil {
		return nil, err
	}

	stores := f.Stores
	if stores == nil {
		stores = storefactory.DefaultFactory{}
	}

	timeout := config.Spec.Fetch.Timeout.Duration

	primary, err := stores.Create(ctx, string(SidePrimary), config.Spec.Primary, timeout)
	if err != nil {
		return nil, fmt.Errorf("create primary store: %w", err)
	}

	secondary, err := stores.Create(ctx, string(SideSecondary), config.Spec.Secondary, timeout)
	if err != nil {
		return nil, fmt.Errorf("create secondary store: %w", err)
	}

	return New(cfg, primary, secondary, WithLogger(f.Logger))
}
