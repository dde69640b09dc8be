package di

import (
	"fmt"

	storefactory "github.com/devantler-tech/ksync/pkg/store/factory"
	"github.com/devantler-tech/ksync/pkg/svc/session"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

// Dependency resolvers.

// ResolveLogger retrieves the logger dependency from the injector.
func ResolveLogger(injector Injector) (logrus.FieldLogger, error) {
	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}

	return logger, nil
}

// ResolveStoreFactory retrieves the store factory dependency from the injector.
func ResolveStoreFactory(injector Injector) (storefactory.Factory, error) {
	factory, err := do.Invoke[storefactory.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve store factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveSessionFactory retrieves the session factory dependency from the injector.
func ResolveSessionFactory(injector Injector) (session.Factory, error) {
	factory, err := do.Invoke[session.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve session factory dependency: %w", err)
	}

	return factory, nil
}
