package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/devantler-tech/ksync/pkg/fsutil"
	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/store"
)

// ErrDuplicateResource is returned when two manifests declare the same record.
var ErrDuplicateResource = errors.New("resource declared more than once")

// Store reads records from and writes records to a manifest directory.
type Store struct {
	name string
	root string
}

// NewStore creates a store named name rooted at dir.
func NewStore(name, dir string) *Store {
	return &Store{name: name, root: dir}
}

// Name returns the store name.
func (s *Store) Name() string {
	return s.name
}

// Root returns the manifest directory.
func (s *Store) Root() string {
	return s.root
}

// ListResources returns the records of kind in namespace declared anywhere
// below the root directory. An empty namespace matches every namespace.
func (s *Store) ListResources(
	ctx context.Context,
	kind resource.Kind,
	namespace string,
) ([]resource.Snapshot, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, store.NewListError(s.name, kind, namespace, err)
	}

	var snapshots []resource.Snapshot

	for _, snapshot := range all {
		if snapshot.Kind != kind {
			continue
		}

		if namespace != "" && snapshot.Namespace != namespace {
			continue
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// ApplyResource writes snapshot to a new manifest file in namespace. A record
// that is already declared, or a file that is already present, yields
// store.ErrAlreadyExists.
func (s *Store) ApplyResource(
	ctx context.Context,
	kind resource.Kind,
	namespace string,
	snapshot resource.Snapshot,
) error {
	err := s.apply(ctx, kind, namespace, snapshot)
	if err != nil {
		return store.NewApplyError(s.name, namespace, snapshot, err)
	}

	return nil
}

func (s *Store) apply(ctx context.Context, kind resource.Kind, namespace string, snapshot resource.Snapshot) error {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	snapshot = snapshot.DeepCopy()
	snapshot.Kind = kind
	snapshot.Namespace = namespace

	err := snapshot.Validate()
	if err != nil {
		return err
	}

	existing, err := s.load(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	for _, other := range existing {
		if other.Identity == snapshot.Identity {
			return fmt.Errorf("%w: %s", store.ErrAlreadyExists, snapshot.Identity)
		}
	}

	content, err := MarshalManifest(snapshot, namespace)
	if err != nil {
		return err
	}

	err = fsutil.WriteNewFile(string(content), filepath.Join(s.root, FileName(snapshot.Identity)))
	if errors.Is(err, fsutil.ErrFileExists) {
		return fmt.Errorf("%w: %w", store.ErrAlreadyExists, err)
	}

	return err
}

// FileName returns the manifest file name used for identity.
func FileName(identity resource.Identity) string {
	return fmt.Sprintf("%s-%s-%s.yaml", strings.ToLower(identity.Kind.String()), identity.Namespace, identity.Name)
}

func (s *Store) load(ctx context.Context) ([]resource.Snapshot, error) {
	var (
		snapshots []resource.Snapshot
		seen      = make(map[resource.Identity]string)
	)

	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if entry.IsDir() || !fsutil.IsYAMLFile(path) {
			return nil
		}

		fileSnapshots, err := readManifestFile(path)
		if err != nil {
			return err
		}

		for _, snapshot := range fileSnapshots {
			if previous, ok := seen[snapshot.Identity]; ok {
				return fmt.Errorf("%w: %s in %s and %s", ErrDuplicateResource, snapshot.Identity, previous, path)
			}

			seen[snapshot.Identity] = path
			snapshots = append(snapshots, snapshot)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read manifests in %s: %w", s.root, err)
	}

	return snapshots, nil
}

func readManifestFile(path string) ([]resource.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from walking the configured root
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	docs, err := fsutil.SplitYAMLDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var snapshots []resource.Snapshot

	for index, doc := range docs {
		docSnapshots, err := unmarshalDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("%s document %d: %w", path, index+1, err)
		}

		snapshots = append(snapshots, docSnapshots...)
	}

	return snapshots, nil
}
