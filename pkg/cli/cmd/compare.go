package cmd

import (
	"errors"
	"fmt"
	"time"

	runtime "github.com/devantler-tech/ksync/pkg/di"
	configmanagerinterface "github.com/devantler-tech/ksync/pkg/io/config-manager"
	configmanager "github.com/devantler-tech/ksync/pkg/io/config-manager/ksync"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// ExitCodeDrift is the exit code of compare --exit-code when the stores differ.
const ExitCodeDrift = 2

// ErrDriftDetected is returned by compare --exit-code when the stores differ.
var ErrDriftDetected = errors.New("stores are not in sync")

// DriftError carries the comparison summary of a failed --exit-code check.
type DriftError struct {
	Summary compare.Summary
}

// Error implements the error interface.
func (e *DriftError) Error() string {
	return fmt.Sprintf("%s: %d different, %d only in primary, %d only in secondary",
		ErrDriftDetected,
		e.Summary[compare.StatusDifferent],
		e.Summary[compare.StatusPrimaryOnly],
		e.Summary[compare.StatusSecondaryOnly],
	)
}

// Unwrap returns ErrDriftDetected.
func (e *DriftError) Unwrap() error {
	return ErrDriftDetected
}

// ExitCode returns ExitCodeDrift.
func (e *DriftError) ExitCode() int {
	return ExitCodeDrift
}

const compareLongDesc = `Compare Secrets and ConfigMaps between the primary and the secondary store.

Each record is reported as identical, different, only in primary or only in
secondary. Identical records are hidden unless --all is set.

Examples:
  # Compare two kube contexts
  ksync compare --primary-context prod --secondary-context staging

  # Compare a cluster against a directory of manifests
  ksync compare --secondary-type file --secondary-path ./backup

  # Fail when the stores drift apart
  ksync compare --exit-code`

// NewCompareCmd creates the compare command.
func NewCompareCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		showAll  bool
		exitCode bool
	)

	cmd := &cobra.Command{
		Use:          "compare",
		Short:        "Compare records between the primary and secondary store",
		Long:         compareLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd, configmanager.DefaultFieldSelectors())

	cmd.Flags().BoolVar(&showAll, "all", false, "Also list identical records")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with code 2 when the stores differ")

	cmd.RunE = runtime.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector runtime.Injector) error {
		return HandleCompareRunE(cmd, injector, cfgManager, showAll, exitCode)
	})

	return cmd
}

// HandleCompareRunE runs the comparison and prints one line per record.
func HandleCompareRunE(
	cmd *cobra.Command,
	injector runtime.Injector,
	cfgManager *configmanager.ConfigManager,
	showAll bool,
	exitCode bool,
) error {
	out := cmd.OutOrStdout()

	config, err := loadConfig(cfgManager, configmanagerinterface.LoadOptions{})
	if err != nil {
		return err
	}

	start := time.Now()

	notify.Titlef(out, "🔍", "Compare resources...")

	sess, results, err := openSession(cmd, injector, config)
	if err != nil {
		return err
	}

	defer func() { _ = sess.Close() }()

	for _, result := range results {
		writeResultLine(cmd, result, showAll)
	}

	summary := compare.Summarize(results)

	if summary.InSync() {
		notify.SuccessWithElapsedf(out, time.Since(start), "%d resources in sync", len(results))

		return nil
	}

	notify.Infof(out, "%d identical, %d different, %d only in primary, %d only in secondary",
		summary[compare.StatusIdentical],
		summary[compare.StatusDifferent],
		summary[compare.StatusPrimaryOnly],
		summary[compare.StatusSecondaryOnly],
	)

	if exitCode {
		return &DriftError{Summary: summary}
	}

	return nil
}

func writeResultLine(cmd *cobra.Command, result compare.Result, showAll bool) {
	out := cmd.OutOrStdout()

	switch result.Status {
	case compare.StatusIdentical:
		if showAll {
			notify.Successf(out, "%s %s", result.Identity, describeStatus(result))
		}
	case compare.StatusDifferent:
		notify.Warningf(out, "%s %s", result.Identity, describeStatus(result))
	default:
		notify.Activityf(out, "%s %s", result.Identity, describeStatus(result))
	}
}
