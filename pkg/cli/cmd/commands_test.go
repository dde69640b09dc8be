package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/ksync/pkg/cli/cmd"
	"github.com/devantler-tech/ksync/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/ksync/pkg/store"
	"github.com/devantler-tech/ksync/pkg/svc/diffview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const primaryManifests = `apiVersion: v1
kind: Secret
metadata:
  name: db
  namespace: prod
data:
  pass: eA==
  user: QWxpY2U=
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: app
data:
  mode: dark
  port: "8080"
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: same
data:
  key: value
`

const secondaryManifests = `apiVersion: v1
kind: Secret
metadata:
  name: db
  namespace: prod
data:
  pass: eA==
  user: Qm9i
---
apiVersion: v1
kind: Secret
metadata:
  name: creds
  namespace: prod
data:
  token: dA==
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: app
data:
  mode: light
  port: "8080"
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: same
data:
  key: value
`

type fileStores struct {
	primary   string
	secondary string
}

func newFileStores(t *testing.T) fileStores {
	t.Helper()

	stores := fileStores{primary: t.TempDir(), secondary: t.TempDir()}

	require.NoError(t, os.WriteFile(filepath.Join(stores.primary, "resources.yaml"), []byte(primaryManifests), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(stores.secondary, "resources.yaml"), []byte(secondaryManifests), 0o600))

	return stores
}

func (s fileStores) args(command string, extra ...string) []string {
	args := []string{
		command,
		"--primary-type", "file", "--primary-path", s.primary,
		"--secondary-type", "file", "--secondary-path", s.secondary,
		"--retry-timeout", "0s",
	}

	return append(args, extra...)
}

func run(t *testing.T, args []string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := cmd.NewRootCmd("test", "test", "test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestCompareCmd(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("compare"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Load config...")
	assert.Contains(t, stdout, "config loaded")
	assert.Contains(t, stdout, "Compare resources...")
	assert.Contains(t, stdout, "Secret/prod/db differs")
	assert.Contains(t, stdout, "ConfigMap/default/app differs")
	assert.Contains(t, stdout, "Secret/prod/creds only in secondary")
	assert.NotContains(t, stdout, "ConfigMap/default/same")
	assert.Contains(t, stdout, "1 identical, 2 different, 0 only in primary, 1 only in secondary")
}

func TestCompareCmd_All(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("compare", "--all"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "ConfigMap/default/same identical")
}

func TestCompareCmd_ExitCode(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	_, _, err := run(t, stores.args("compare", "--exit-code"))
	require.ErrorIs(t, err, cmd.ErrDriftDetected)
	assert.Equal(t, cmd.ExitCodeDrift, errorhandler.ExitCode(err))
}

func TestCompareCmd_InSync(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("compare", "--exit-code", "--kind", "ConfigMap", "--namespace", "kube-system"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 resources in sync")
}

func TestDiffCmd(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("diff", "--resource", "Secret/prod/db", "--ids"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Index: db")
	assert.NotContains(t, stdout, "Load config...")
	assert.Contains(t, stdout, `-  "user": "QWxpY2U="`)
	assert.Contains(t, stdout, `+  "user": "Qm9i"`)
	assert.Contains(t, stdout, "Secret/prod/db#L-3")
	assert.Contains(t, stdout, "Secret/prod/db#R-3")
	assert.NotContains(t, stdout, "ConfigMap/default/app")
}

func TestDiffCmd_Decode(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("diff", "--resource", "Secret/prod/db", "--decode"))
	require.NoError(t, err)
	assert.Contains(t, stdout, `-  "user": "Alice"`)
	assert.Contains(t, stdout, `+  "user": "Bob"`)
}

func TestDiffCmd_PerKey(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("diff", "--resource", "ConfigMap/default/app", "--per-key", "--ids"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Index: mode")
	assert.Contains(t, stdout, "ConfigMap/default/app[mode]#L-1")
	assert.NotContains(t, stdout, "Index: port")
}

func TestDiffCmd_UnknownResource(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	_, _, err := run(t, stores.args("diff", "--resource", "Secret/prod/missing"))
	require.ErrorIs(t, err, cmd.ErrResourceNotCompared)
}

func TestMergeCmd_Preview(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("merge", "--resource", "Secret/prod/db", "--select", "l-03"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "kind: Secret")
	assert.Contains(t, stdout, "user: QWxpY2U=")
	assert.Contains(t, stdout, "pass: eA==")
}

func TestMergeCmd_PerKeyOutput(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)
	output := filepath.Join(t.TempDir(), "app.yaml")

	_, _, err := run(t, stores.args("merge",
		"--resource", "ConfigMap/default/app",
		"--per-key",
		"--select", "mode#R-1",
		"--direction", "secondary-to-primary",
		"--output", output,
	))
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mode: light")
	assert.Contains(t, string(content), `port: "8080"`)

	_, _, err = run(t, stores.args("merge",
		"--resource", "ConfigMap/default/app",
		"--per-key",
		"--select", "mode#R-1",
		"--direction", "secondary-to-primary",
		"--output", output,
	))
	require.Error(t, err, "existing output files are never overwritten")
}

func TestMergeCmd_Apply(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	stdout, _, err := run(t, stores.args("merge",
		"--resource", "Secret/prod/db",
		"--select", "L-3",
		"--apply",
		"--target-namespace", "restore",
	))
	require.NoError(t, err)
	assert.Contains(t, stdout, "created Secret restore/db in secondary")

	content, err := os.ReadFile(filepath.Join(stores.secondary, "secret-restore-db.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "user: QWxpY2U=")
}

func TestMergeCmd_ApplyExisting(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	_, _, err := run(t, stores.args("merge", "--resource", "Secret/prod/db", "--select", "L-3", "--apply"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	assert.NotEmpty(t, errorhandler.Hint(err))
}

func TestMergeCmd_Validation(t *testing.T) {
	t.Parallel()

	stores := newFileStores(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing resource", []string{"--select", "L-3"}, cmd.ErrResourceRequired},
		{"missing selection", []string{"--resource", "Secret/prod/db"}, cmd.ErrSelectionRequired},
		{
			"apply and output",
			[]string{"--resource", "Secret/prod/db", "--select", "L-3", "--apply", "--output", "x.yaml"},
			cmd.ErrApplyAndOutput,
		},
		{"not different", []string{"--resource", "Secret/prod/creds", "--select", "R-2"}, cmd.ErrNotDifferent},
		{
			"unknown line",
			[]string{"--resource", "Secret/prod/db", "--select", "L-9"},
			diffview.ErrInvalidLineID,
		},
		{
			"malformed line id",
			[]string{"--resource", "Secret/prod/db", "--select", "user#Q-1"},
			diffview.ErrInvalidLineID,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := run(t, stores.args("merge", testCase.args...))
			require.ErrorIs(t, err, testCase.want)
		})
	}
}
