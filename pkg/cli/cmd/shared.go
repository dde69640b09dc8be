package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	runtime "github.com/devantler-tech/ksync/pkg/di"
	configmanagerinterface "github.com/devantler-tech/ksync/pkg/io/config-manager"
	configmanager "github.com/devantler-tech/ksync/pkg/io/config-manager/ksync"
	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/session"
	"github.com/spf13/cobra"
)

const resourceFlagName = "resource"

// ErrResourceNotCompared is returned when --resource names a record neither store holds.
var ErrResourceNotCompared = errors.New("resource was not found in either store")

// loadConfig loads the command configuration. Commands whose stdout carries
// patches or manifests load silently.
func loadConfig(
	cfgManager *configmanager.ConfigManager,
	opts configmanagerinterface.LoadOptions,
) (*v1alpha1.Sync, error) {
	config, err := cfgManager.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return config, nil
}

// openSession opens a session through the injector and runs a comparison.
// The caller closes the session.
func openSession(
	cmd *cobra.Command,
	injector runtime.Injector,
	config *v1alpha1.Sync,
) (*session.Session, []compare.Result, error) {
	factory, err := runtime.ResolveSessionFactory(injector)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // resolver errors are already wrapped
	}

	sess, err := factory.Open(cmd.Context(), config)
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}

	results, err := sess.Compare(cmd.Context())
	if err != nil {
		_ = sess.Close()

		return nil, nil, fmt.Errorf("compare stores: %w", err)
	}

	return sess, results, nil
}

// parseIdentities parses kind/namespace/name arguments.
func parseIdentities(values []string) ([]resource.Identity, error) {
	identities := make([]resource.Identity, 0, len(values))

	for _, value := range values {
		identity, err := resource.ParseIdentity(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("parse --%s: %w", resourceFlagName, err)
		}

		identities = append(identities, identity)
	}

	return identities, nil
}

// filterResults keeps the results for identities, in result order. Every
// identity must match a result. No identities keeps everything.
func filterResults(results []compare.Result, identities []resource.Identity) ([]compare.Result, error) {
	if len(identities) == 0 {
		return results, nil
	}

	var filtered []compare.Result

	for _, result := range results {
		if slices.Contains(identities, result.Identity) {
			filtered = append(filtered, result)
		}
	}

	for _, identity := range identities {
		if !slices.ContainsFunc(filtered, func(result compare.Result) bool {
			return result.Identity == identity
		}) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotCompared, identity)
		}
	}

	return filtered, nil
}

// describeStatus renders a result status for humans.
func describeStatus(result compare.Result) string {
	switch result.Status {
	case compare.StatusIdentical:
		return "identical"
	case compare.StatusDifferent:
		return "differs"
	case compare.StatusPrimaryOnly:
		return "only in primary"
	case compare.StatusSecondaryOnly:
		return "only in secondary"
	default:
		return string(result.Status)
	}
}
