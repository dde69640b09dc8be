package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/store"
	"github.com/devantler-tech/ksync/pkg/store/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiDocManifest = `apiVersion: v1
kind: Secret
metadata:
  name: db
  namespace: prod
data:
  user: QWxpY2U=
stringData:
  pass: hunter2
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: app
data:
  mode: dev
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
`

const listManifest = `apiVersion: v1
kind: List
items:
- apiVersion: v1
  kind: ConfigMap
  metadata:
    name: feature-flags
    namespace: prod
  data:
    beta: "true"
- apiVersion: v1
  kind: Secret
  metadata:
    name: api
    namespace: prod
  data:
    token: dA==
`

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func newFixtureStore(t *testing.T) *file.Store {
	t.Helper()

	dir := t.TempDir()
	writeManifest(t, dir, "all.yaml", multiDocManifest)
	writeManifest(t, dir, "nested/list.yml", listManifest)
	writeManifest(t, dir, "README.md", "not a manifest")

	return file.NewStore("secondary", dir)
}

func TestStore_ListResources(t *testing.T) {
	t.Parallel()

	t.Run("secrets across files with stringData folded", func(t *testing.T) {
		t.Parallel()

		snapshots, err := newFixtureStore(t).ListResources(context.Background(), resource.KindSecret, "")
		require.NoError(t, err)
		require.Len(t, snapshots, 2)

		byName := map[string]resource.Snapshot{}
		for _, snapshot := range snapshots {
			byName[snapshot.Name] = snapshot
		}

		assert.Equal(t, map[string]string{"user": "QWxpY2U=", "pass": "aHVudGVyMg=="}, byName["db"].Data.ToMap())
		assert.Equal(t, map[string]string{"token": "dA=="}, byName["api"].Data.ToMap())
	})

	t.Run("namespace filter and default namespace", func(t *testing.T) {
		t.Parallel()

		fixture := newFixtureStore(t)

		defaults, err := fixture.ListResources(context.Background(), resource.KindConfigMap, file.DefaultNamespace)
		require.NoError(t, err)
		require.Len(t, defaults, 1)
		assert.Equal(t, "app", defaults[0].Name)

		prod, err := fixture.ListResources(context.Background(), resource.KindConfigMap, "prod")
		require.NoError(t, err)
		require.Len(t, prod, 1)
		assert.Equal(t, "feature-flags", prod[0].Name)
	})

	t.Run("missing directory is a transport failure", func(t *testing.T) {
		t.Parallel()

		missing := file.NewStore("primary", filepath.Join(t.TempDir(), "missing"))

		_, err := missing.ListResources(context.Background(), resource.KindSecret, "")
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.True(t, store.IsTransportError(err))
	})

	t.Run("duplicate declarations are rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeManifest(t, dir, "a.yaml", multiDocManifest)
		writeManifest(t, dir, "b.yaml", multiDocManifest)

		_, err := file.NewStore("primary", dir).ListResources(context.Background(), resource.KindSecret, "")
		require.ErrorIs(t, err, file.ErrDuplicateResource)
	})

	t.Run("invalid yaml names the file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeManifest(t, dir, "broken.yaml", "kind: [unterminated")

		_, err := file.NewStore("primary", dir).ListResources(context.Background(), resource.KindSecret, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.yaml document 1")
	})
}

func TestStore_ApplyResource(t *testing.T) {
	t.Parallel()

	snapshot, err := resource.NewSnapshot(
		resource.KindConfigMap, "prod", "app",
		resource.NewDataMap(map[string]string{"mode": "prod"}),
	)
	require.NoError(t, err)

	t.Run("writes a manifest that reads back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := file.NewStore("secondary", dir)

		require.NoError(t, target.ApplyResource(context.Background(), resource.KindConfigMap, "prod", snapshot))
		assert.FileExists(t, filepath.Join(dir, "configmap-prod-app.yaml"))

		snapshots, err := target.ListResources(context.Background(), resource.KindConfigMap, "prod")
		require.NoError(t, err)
		require.Len(t, snapshots, 1)
		assert.Equal(t, snapshot.Identity, snapshots[0].Identity)
		assert.True(t, snapshot.Data.Equal(snapshots[0].Data))
	})

	t.Run("creates the directory", func(t *testing.T) {
		t.Parallel()

		target := file.NewStore("secondary", filepath.Join(t.TempDir(), "new"))

		require.NoError(t, target.ApplyResource(context.Background(), resource.KindConfigMap, "prod", snapshot))
	})

	t.Run("declared record is not overwritten", func(t *testing.T) {
		t.Parallel()

		target := newFixtureStore(t)

		err := target.ApplyResource(context.Background(), resource.KindConfigMap, "prod", resource.Snapshot{
			Identity: resource.Identity{Kind: resource.KindConfigMap, Namespace: "prod", Name: "feature-flags"},
			Exists:   true,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
		assert.True(t, store.IsTransportError(err))
	})
}

func TestMarshalManifest(t *testing.T) {
	t.Parallel()

	snapshot, err := resource.NewSnapshot(
		resource.KindSecret, "prod", "db",
		resource.NewDataMap(map[string]string{"user": "QWxpY2U="}),
	)
	require.NoError(t, err)

	out, err := file.MarshalManifest(snapshot, "staging")
	require.NoError(t, err)

	assert.Equal(t, `apiVersion: v1
data:
  user: QWxpY2U=
kind: Secret
metadata:
  name: db
  namespace: staging
type: Opaque
`, string(out))
}
