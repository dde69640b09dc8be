// Package codec provides reversible display transforms for record values.
//
// Decoding is view-only: callers feed decoded text to the patch generator and
// diff view, while merges are always reconstructed from the original values.
package codec

import (
	"encoding/base64"
	"fmt"

	"github.com/devantler-tech/ksync/pkg/resource"
)

// Codec decodes a single stored value into its display form.
type Codec interface {
	// Name identifies the transform in user output.
	Name() string
	// Decode returns the display form of value.
	Decode(value string) (string, error)
}

// Base64 decodes standard base64 payloads as stored in Secret data.
type Base64 struct{}

// Name implements Codec.
func (Base64) Name() string {
	return "base64"
}

// Decode implements Codec.
func (Base64) Decode(value string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	return string(decoded), nil
}

// FieldError records a value that could not be decoded and was kept raw.
type FieldError struct {
	Key string
	Err error
}

// Error implements error.
func (e FieldError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying decode error.
func (e FieldError) Unwrap() error {
	return e.Err
}

// Decoder applies a Codec to every value of opaque records.
type Decoder struct {
	codec Codec
}

// NewDecoder returns a Decoder using codec, or Base64 when codec is nil.
func NewDecoder(codec Codec) *Decoder {
	if codec == nil {
		codec = Base64{}
	}

	return &Decoder{codec: codec}
}

// Applies reports whether values of kind are decoded when the user enables decoding.
func (d *Decoder) Applies(kind resource.Kind, enabled bool) bool {
	return enabled && kind.Opaque()
}

// DecodeMap returns a copy of data with every value decoded. A value that fails
// to decode keeps its raw form and is reported in the returned slice; it never
// stops the remaining values from being decoded. When decoding does not apply
// to kind the copy is returned unchanged.
func (d *Decoder) DecodeMap(kind resource.Kind, data resource.DataMap, enabled bool) (resource.DataMap, []FieldError) {
	out := data.Clone()
	if !d.Applies(kind, enabled) {
		return out, nil
	}

	var failures []FieldError

	for _, key := range data.Keys() {
		raw, _ := data.Get(key)

		decoded, err := d.codec.Decode(raw)
		if err != nil {
			failures = append(failures, FieldError{Key: key, Err: err})

			continue
		}

		out.Set(key, decoded)
	}

	return out, failures
}
