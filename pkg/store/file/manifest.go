package file

import (
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/devantler-tech/ksync/pkg/resource"
	"sigs.k8s.io/yaml"
)

const (
	// DefaultNamespace is assigned to manifests that do not set one.
	DefaultNamespace = "default"

	apiVersionV1 = "v1"
	kindList     = "List"
)

type metadata struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

type manifest struct {
	APIVersion string            `json:"apiVersion"`
	Kind       string            `json:"kind"`
	Metadata   metadata          `json:"metadata"`
	Type       string            `json:"type,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	StringData map[string]string `json:"stringData,omitempty"`
	Items      []manifest        `json:"items,omitempty"`
}

// MarshalManifest renders snapshot as a v1 manifest in namespace.
func MarshalManifest(snapshot resource.Snapshot, namespace string) ([]byte, error) {
	doc := manifest{
		APIVersion: apiVersionV1,
		Kind:       snapshot.Kind.String(),
		Metadata:   metadata{Name: snapshot.Name, Namespace: namespace},
		Data:       snapshot.Data.ToMap(),
	}

	if snapshot.Kind == resource.KindSecret {
		doc.Type = "Opaque"
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", snapshot.Identity, err)
	}

	return out, nil
}

// unmarshalDocument parses a single YAML document into snapshots, flattening
// List documents. Documents of other kinds are skipped.
func unmarshalDocument(data []byte) ([]resource.Snapshot, error) {
	var doc manifest

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return flatten(doc)
}

func flatten(doc manifest) ([]resource.Snapshot, error) {
	if doc.Kind == kindList {
		var snapshots []resource.Snapshot

		for _, item := range doc.Items {
			flat, err := flatten(item)
			if err != nil {
				return nil, err
			}

			snapshots = append(snapshots, flat...)
		}

		return snapshots, nil
	}

	kind := resource.Kind(doc.Kind)
	if !slices.Contains(resource.ValidKinds(), kind) {
		return nil, nil
	}

	namespace := doc.Metadata.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	values := make(map[string]string, len(doc.Data)+len(doc.StringData))
	for key, value := range doc.Data {
		values[key] = value
	}

	for key, value := range doc.StringData {
		if kind == resource.KindSecret {
			value = base64.StdEncoding.EncodeToString([]byte(value))
		}

		values[key] = value
	}

	snapshot, err := resource.NewSnapshot(kind, namespace, doc.Metadata.Name, resource.NewDataMap(values))
	if err != nil {
		return nil, err
	}

	return []resource.Snapshot{snapshot}, nil
}
