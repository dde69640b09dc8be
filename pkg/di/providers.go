package di

import (
	storefactory "github.com/devantler-tech/ksync/pkg/store/factory"
	"github.com/devantler-tech/ksync/pkg/svc/session"
	"github.com/devantler-tech/ksync/pkg/utils/logging"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DebugFlagName is the persistent flag that enables debug diagnostics.
const DebugFlagName = "debug"

// Dependency providers.

// NewRuntime constructs the shared runtime container used by root command and tests.
// It registers default implementations for the logger, store factory and session factory.
func NewRuntime() *Runtime {
	return New(
		provideLogger,
		provideStoreFactory,
		provideSessionFactory,
	)
}

// provideCommand registers the invoking cobra command.
func provideCommand(cmd *cobra.Command) Module {
	return func(i Injector) error {
		do.ProvideValue(i, cmd)

		return nil
	}
}

// provideLogger registers a logger writing to the command's stderr. The
// level follows --debug when a command is registered.
func provideLogger(i Injector) error {
	do.Provide(i, func(i Injector) (logrus.FieldLogger, error) {
		cmd, err := do.Invoke[*cobra.Command](i)
		if err != nil {
			return logging.New(nil, false), nil //nolint:nilerr // no command means default logging
		}

		debug, _ := cmd.Flags().GetBool(DebugFlagName)

		return logging.New(cmd.ErrOrStderr(), debug), nil
	})

	return nil
}

// provideStoreFactory registers the store factory dependency.
func provideStoreFactory(i Injector) error {
	do.Provide(i, func(Injector) (storefactory.Factory, error) {
		return storefactory.DefaultFactory{}, nil
	})

	return nil
}

// provideSessionFactory registers the session factory dependency.
func provideSessionFactory(i Injector) error {
	do.Provide(i, func(i Injector) (session.Factory, error) {
		stores, err := ResolveStoreFactory(i)
		if err != nil {
			return nil, err
		}

		logger, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}

		return session.DefaultFactory{Stores: stores, Logger: logger}, nil
	})

	return nil
}
