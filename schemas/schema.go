// Package schemas generates the JSON schema of the ksync configuration file.
package schemas

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/devantler-tech/ksync/pkg/apis/sync/v1alpha1"
	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/invopop/jsonschema"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

//go:generate go run gen_schema.go ksync-config.schema.json

// Title is the schema title.
const Title = "ksync Configuration"

// Generate reflects the Sync type into an indented JSON schema document.
func Generate() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    customTypeMapper,
	}
	schema := reflector.Reflect(&v1alpha1.Sync{})

	customizeSchema(schema)

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return schemaJSON, nil
}

func customizeSchema(schema *jsonschema.Schema) {
	schema.ID = ""
	schema.Title = Title
	schema.Description = "JSON schema for ksync configuration (ksync.yaml)"

	// Every nested field is omitzero.
	walkSchema(schema, func(s *jsonschema.Schema) {
		s.Required = nil
	})

	schema.Required = []string{"spec"}

	if schema.Properties == nil {
		return
	}

	if p, ok := schema.Properties.Get("kind"); ok && p != nil {
		p.Enum = []any{v1alpha1.Kind}
	}

	if p, ok := schema.Properties.Get("apiVersion"); ok && p != nil {
		p.Enum = []any{v1alpha1.APIVersion}
	}

	if spec, ok := schema.Properties.Get("spec"); ok && spec != nil && spec.Properties != nil {
		if kinds, ok := spec.Properties.Get("kinds"); ok && kinds != nil && kinds.Items != nil {
			kinds.Items.Enum = kindEnum()
		}
	}
}

func kindEnum() []any {
	kinds := resource.ValidKinds()

	values := make([]any, len(kinds))
	for i, kind := range kinds {
		values[i] = kind.String()
	}

	return values
}

func walkSchema(schema *jsonschema.Schema, fn func(*jsonschema.Schema)) {
	if schema == nil {
		return
	}

	fn(schema)

	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			walkSchema(pair.Value, fn)
		}
	}

	if schema.Items != nil {
		walkSchema(schema.Items, fn)
	}

	if schema.AdditionalProperties != nil {
		walkSchema(schema.AdditionalProperties, fn)
	}
}

// customTypeMapper maps EnumValuer types to string enums and durations to
// their textual form.
func customTypeMapper(t reflect.Type) *jsonschema.Schema {
	if reflect.PointerTo(t).Implements(reflect.TypeFor[v1alpha1.EnumValuer]()) {
		values := reflect.New(t).Interface().(v1alpha1.EnumValuer).ValidValues() //nolint:forcetypeassert

		enumVals := make([]any, len(values))
		for i, v := range values {
			enumVals[i] = v
		}

		return &jsonschema.Schema{Type: "string", Enum: enumVals}
	}

	if t == reflect.TypeFor[metav1.Duration]() {
		return &jsonschema.Schema{
			Type:    "string",
			Pattern: "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$",
		}
	}

	return nil
}
