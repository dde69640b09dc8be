// Package di wires ksync dependencies with samber/do.
//
// A Runtime creates a fresh injector per command invocation, registers the
// logger, store factory and session factory, and shuts the injector down
// when the handler returns.
package di
