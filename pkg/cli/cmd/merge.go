package cmd

import (
	"errors"
	"fmt"
	"strings"

	runtime "github.com/devantler-tech/ksync/pkg/di"
	"github.com/devantler-tech/ksync/pkg/fsutil"
	configmanagerinterface "github.com/devantler-tech/ksync/pkg/io/config-manager"
	configmanager "github.com/devantler-tech/ksync/pkg/io/config-manager/ksync"
	"github.com/devantler-tech/ksync/pkg/resource"
	filestore "github.com/devantler-tech/ksync/pkg/store/file"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/diffview"
	"github.com/devantler-tech/ksync/pkg/svc/merge"
	"github.com/devantler-tech/ksync/pkg/svc/session"
	"github.com/devantler-tech/ksync/pkg/utils/notify"
	"github.com/spf13/cobra"
)

var (
	// ErrResourceRequired is returned when merge runs without --resource.
	ErrResourceRequired = errors.New("--resource is required")
	// ErrSelectionRequired is returned when merge runs without --select.
	ErrSelectionRequired = errors.New("--select is required")
	// ErrAmbiguousLine is returned when a bare line id matches more than one per-key diff.
	ErrAmbiguousLine = errors.New("line id is ambiguous, prefix it with the key (key#L-1)")
	// ErrNotDifferent is returned when the merged record does not differ between the stores.
	ErrNotDifferent = errors.New("resource does not differ between the stores")
	// ErrApplyAndOutput is returned when --apply and --output are combined.
	ErrApplyAndOutput = errors.New("--apply and --output are mutually exclusive")
)

const mergeLongDesc = `Copy selected diff lines of one record from one store into the other.

Selected lines are named by the ids diff --ids prints. A bare id such as L-4
selects a line of the whole-record diff; key#R-1 selects a line of one key's
diff when --per-key is set. Selecting lines that name keys copies those keys;
the rest of the destination stays untouched.

By default the merged record is printed as a manifest. --output writes it to a
new file and --apply creates it in the destination store. Stores never
overwrite records, so --apply usually needs a --target-namespace that does not hold
the record yet.

Examples:
  # Preview copying the "user" line from primary into secondary
  ksync merge --resource Secret/prod/db --select L-4

  # Write the merged ConfigMap to a manifest
  ksync merge --resource ConfigMap/default/app --per-key --select port#L-1 --output app.yaml

  # Create the merged record in the primary store under a new namespace
  ksync merge --resource Secret/prod/db --select R-2 --direction secondary-to-primary --apply --target-namespace restore`

type mergeOptions struct {
	resource  string
	selectors []string
	direction merge.Direction
	apply     bool
	output    string
	namespace string
}

// NewMergeCmd creates the merge command.
func NewMergeCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	opts := mergeOptions{direction: merge.PrimaryToSecondary}

	cmd := &cobra.Command{
		Use:          "merge",
		Short:        "Merge selected diff lines from one store into the other",
		Long:         mergeLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(cmd, configmanager.DefaultFieldSelectors())

	flags := cmd.Flags()
	flags.StringVar(&opts.resource, resourceFlagName, "", "Record to merge (kind/namespace/name)")
	flags.StringSliceVar(&opts.selectors, "select", nil, "Line ids to merge (repeatable)")
	flags.Var(&opts.direction, "direction", "Merge direction (primary-to-secondary, secondary-to-primary)")
	flags.BoolVar(&opts.apply, "apply", false, "Create the merged record in the destination store")
	flags.StringVar(&opts.output, "output", "", "Write the merged record to a new manifest file")
	flags.StringVar(&opts.namespace, "target-namespace", "", "Namespace of the merged record (defaults to the record's namespace)")

	cmd.RunE = runtime.RunEWithRuntime(runtimeContainer, func(cmd *cobra.Command, injector runtime.Injector) error {
		return HandleMergeRunE(cmd, injector, cfgManager, opts)
	})

	return cmd
}

// HandleMergeRunE selects the requested lines and previews, writes or applies the merge.
//
//nolint:cyclop // validation of mutually dependent flags
func HandleMergeRunE(
	cmd *cobra.Command,
	injector runtime.Injector,
	cfgManager *configmanager.ConfigManager,
	opts mergeOptions,
) error {
	switch {
	case opts.resource == "":
		return ErrResourceRequired
	case len(opts.selectors) == 0:
		return ErrSelectionRequired
	case opts.apply && opts.output != "":
		return ErrApplyAndOutput
	}

	identity, err := resource.ParseIdentity(opts.resource)
	if err != nil {
		return fmt.Errorf("parse --%s: %w", resourceFlagName, err)
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

	matched, err := filterResults(results, []resource.Identity{identity})
	if err != nil {
		return err
	}

	result := matched[0]
	if result.Status != compare.StatusDifferent {
		return fmt.Errorf("%w: %s is %s", ErrNotDifferent, identity, describeStatus(result))
	}

	views, err := sess.BuildDiffView(result, viewOptions(config))
	if err != nil {
		return fmt.Errorf("build diff for %s: %w", identity, err)
	}

	err = selectLines(sess, identity, views, opts.selectors)
	if err != nil {
		return err
	}

	if opts.apply {
		return applyMerge(cmd, sess, result, opts)
	}

	merged, err := sess.ReconstructMerge(result, opts.direction)
	if err != nil {
		return err //nolint:wrapcheck // session errors name the operation
	}

	return writeMerged(cmd, merged, opts)
}

// selectLines resolves every selector to a model line and selects it.
func selectLines(sess *session.Session, identity resource.Identity, views []session.View, selectors []string) error {
	for _, selector := range selectors {
		modelID, local, err := resolveSelector(identity, views, selector)
		if err != nil {
			return err
		}

		_, err = sess.SelectLine(modelID, local, true)
		if err != nil {
			return fmt.Errorf("select %q: %w", selector, err)
		}
	}

	return nil
}

// resolveSelector maps "L-4", "key#L-4" or a full "Kind/ns/name[key]#L-4" id
// to a model id and a normalized scope-local line id.
func resolveSelector(identity resource.Identity, views []session.View, selector string) (string, string, error) {
	selector = strings.TrimSpace(selector)

	var modelID string

	prefix, local, found := strings.Cut(selector, "#")

	switch {
	case !found:
		if len(views) != 1 {
			return "", "", fmt.Errorf("%w: %q", ErrAmbiguousLine, selector)
		}

		modelID, local = views[0].Model.ID(), selector
	case strings.Contains(prefix, "/"):
		modelID = prefix
	default:
		modelID = diffview.ScopeFor(identity, prefix).String()
	}

	side, number, err := diffview.ParseLocalID(local)
	if err != nil {
		return "", "", fmt.Errorf("select %q: %w", selector, err)
	}

	return modelID, diffview.LocalID(side, number), nil
}

func applyMerge(cmd *cobra.Command, sess *session.Session, result compare.Result, opts mergeOptions) error {
	outcome, err := sess.ApplyMerge(cmd.Context(), result, opts.direction, opts.namespace)
	if err != nil {
		return err //nolint:wrapcheck // session errors name the operation
	}

	if outcome.NoOp {
		notify.Warningf(cmd.OutOrStdout(), "no lines of %s selected, nothing applied", result.Identity)

		return nil
	}

	notify.Successf(cmd.OutOrStdout(), "created %s %s/%s in %s (keys: %s)",
		outcome.Merged.Snapshot.Kind,
		outcome.Namespace,
		outcome.Merged.Snapshot.Name,
		outcome.Store,
		describeKeys(outcome.Merged),
	)

	return nil
}

func writeMerged(cmd *cobra.Command, merged merge.Merged, opts mergeOptions) error {
	namespace := opts.namespace
	if namespace == "" {
		namespace = merged.Snapshot.Namespace
	}

	manifest, err := filestore.MarshalManifest(merged.Snapshot, namespace)
	if err != nil {
		return fmt.Errorf("render merged record: %w", err)
	}

	if opts.output == "" {
		notify.Infof(cmd.ErrOrStderr(), "merged %s (%s, keys: %s)",
			merged.Snapshot.Identity, merged.Direction, describeKeys(merged))

		_, err = cmd.OutOrStdout().Write(manifest)
		if err != nil {
			return fmt.Errorf("write merged record: %w", err)
		}

		return nil
	}

	output, err := fsutil.ExpandHomePath(opts.output)
	if err != nil {
		return fmt.Errorf("expand output path: %w", err)
	}

	err = fsutil.WriteNewFile(string(manifest), output)
	if err != nil {
		return fmt.Errorf("write merged record: %w", err)
	}

	notify.Generatef(cmd.OutOrStdout(), "'%s'", output)

	return nil
}

func describeKeys(merged merge.Merged) string {
	if merged.Replaced {
		return "all"
	}

	return strings.Join(merged.Keys, ", ")
}
