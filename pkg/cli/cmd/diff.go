package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	runtime "github.com/devantler-tech/ksync/pkg/di"
	configmanagerinterface "github.com/devantler-tech/ksync/pkg/io/config-manager"
	configmanager "github.com/devantler-tech/ksync/pkg/io/config-manager/ksync"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/diffview"
	"github.com/devantler-tech/ksync/pkg/svc/session"
	"github.com/devantler-tech/ksync/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const diffLongDesc = `Print unified diffs of the records that differ between the primary and the
secondary store.

With --ids every changed line is listed with the id that merge --select accepts.
Secret values are base64 encoded; --decode shows them decoded.

Examples:
  # Diff every record
  ksync diff

  # Diff one ConfigMap key by key and list selectable line ids
  ksync diff --resource ConfigMap/default/app-config --per-key --ids`

// NewDiffCmd creates the diff command.
func NewDiffCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	var (
		resources []string
		showIDs   bool
	)

	cmd := &cobra.Command{
		Use:          "diff",
		Short:        "Print unified diffs between the primary and secondary store",
		Long:         diffLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd, configmanager.DefaultFieldSelectors())

	cmd.Flags().StringSliceVar(&resources, resourceFlagName, nil, "Only diff these records (kind/namespace/name, repeatable)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "List the selectable line ids after each diff")

	cmd.RunE = runtime.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector runtime.Injector) error {
		return HandleDiffRunE(cmd, injector, cfgManager, resources, showIDs)
	})

	return cmd
}

// HandleDiffRunE prints the diffs of the compared records.
func HandleDiffRunE(
	cmd *cobra.Command,
	injector runtime.Injector,
	cfgManager *configmanager.ConfigManager,
	resources []string,
	showIDs bool,
) error {
	identities, err := parseIdentities(resources)
	if err != nil {
		return err
	}

	config, err := loadConfig(cfgManager, configmanagerinterface.LoadOptions{Silent: true})
	if err != nil {
		return err
	}

	sess, results, err := openSession(cmd, injector, config)
	if err != nil {
		return err
	}

	defer func() { _ = sess.Close() }()

	results, err = filterResults(results, identities)
	if err != nil {
		return err
	}

	printed := 0

	for _, result := range results {
		switch result.Status {
		case compare.StatusIdentical:
			continue
		case compare.StatusPrimaryOnly, compare.StatusSecondaryOnly:
			notify.Activityf(cmd.OutOrStdout(), "%s %s", result.Identity, describeStatus(result))

			printed++

			continue
		case compare.StatusDifferent:
		}

		views, viewErr := sess.BuildDiffView(result, viewOptions(config))
		if viewErr != nil {
			return fmt.Errorf("build diff for %s: %w", result.Identity, viewErr)
		}

		writeViews(cmd, result, views, showIDs)

		printed++
	}

	if printed == 0 {
		notify.Successf(cmd.OutOrStdout(), "no differences")
	}

	return nil
}

func viewOptions(config *v1alpha1.Sync) session.ViewOptions {
	return session.ViewOptions{Decode: config.Spec.Diff.Decode, PerKey: config.Spec.Diff.PerKey}
}

func writeViews(cmd *cobra.Command, result compare.Result, views []session.View, showIDs bool) {
	out := cmd.OutOrStdout()

	for _, view := range views {
		for _, failure := range view.DecodeFailures {
			notify.Warningf(cmd.ErrOrStderr(), "%s: %q shown raw: %v", result.Identity, failure.Key, failure.Err)
		}

		notify.WritePatch(out, view.PatchText)

		if showIDs {
			writeLineIDs(out, view.Model)
		}
	}
}

// writeLineIDs lists the selectable lines of model, one per row.
func writeLineIDs(out io.Writer, model *diffview.Model) {
	for _, line := range model.Changes() {
		marker := "+"
		if line.Type == diffview.LineDeletion {
			marker = "-"
		}

		_, _ = fmt.Fprintf(out, "  %s  %s%s\n", line.ID, marker, strings.TrimRight(line.Content, " "))
	}
}
