package cmd

import (
	"fmt"

	"github.com/devantler-tech/ksync/pkg/cli/ui/errorhandler"
	runtime "github.com/devantler-tech/ksync/pkg/di"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(runtime.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime creates the root command on top of runtimeContainer.
func NewRootCmdWithRuntime(runtimeContainer *runtime.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ksync",
		Short: "ksync compares and merges Secrets and ConfigMaps between two stores",
		Long: "ksync compares Secrets and ConfigMaps held in a primary and a secondary store " +
			"(Kubernetes clusters or manifest directories), shows line level diffs and merges " +
			"selected lines from one side into the other.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = formatVersion(version, commit, date)

	cmd.PersistentFlags().Bool(runtime.DebugFlagName, false, "Log debug diagnostics to stderr")

	cmd.AddCommand(NewCompareCmd(runtimeContainer))
	cmd.AddCommand(NewDiffCmd(runtimeContainer))
	cmd.AddCommand(NewMergeCmd(runtimeContainer))
	cmd.AddCommand(NewVersionCmd(version, commit, date))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func formatVersion(version, commit, date string) string {
	return fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)
}

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
