package resource

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// DataMap is an ordered string to string mapping. The zero value is an empty
// map ready to use. Assigning a DataMap shares its storage; Clone before
// mutating a map held elsewhere.
type DataMap struct {
	keys   []string
	values map[string]string
}

// NewDataMap builds a DataMap from a plain map. Go maps carry no order, so keys
// are inserted sorted.
func NewDataMap(values map[string]string) DataMap {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	data := DataMap{}
	for _, key := range keys {
		data.Set(key, values[key])
	}

	return data
}

// Set stores value under key. New keys are appended; existing keys keep their position.
func (d *DataMap) Set(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}

	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.values[key] = value
}

// Get returns the value stored under key.
func (d DataMap) Get(key string) (string, bool) {
	value, ok := d.values[key]

	return value, ok
}

// Delete removes key if present.
func (d *DataMap) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}

	delete(d.values, key)

	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (d DataMap) Keys() []string {
	return slices.Clone(d.keys)
}

// Len returns the number of entries.
func (d DataMap) Len() int {
	return len(d.keys)
}

// Clone returns an independent copy.
func (d DataMap) Clone() DataMap {
	out := DataMap{}
	for _, key := range d.keys {
		out.Set(key, d.values[key])
	}

	return out
}

// ToMap returns the entries as a plain map.
func (d DataMap) ToMap() map[string]string {
	out := make(map[string]string, len(d.keys))
	for _, key := range d.keys {
		out[key] = d.values[key]
	}

	return out
}

// Equal reports whether both maps hold the same entries, ignoring order.
func (d DataMap) Equal(other DataMap) bool {
	return Canonical(d) == Canonical(other)
}

// MarshalJSON encodes the map as a JSON object in canonical key order.
func (d DataMap) MarshalJSON() ([]byte, error) {
	return []byte(Canonical(d)), nil
}

// UnmarshalJSON decodes a JSON object of string values.
func (d *DataMap) UnmarshalJSON(data []byte) error {
	var values map[string]string

	err := json.Unmarshal(data, &values)
	if err != nil {
		return err //nolint:wrapcheck // decoding errors are reported by the caller with context.
	}

	*d = NewDataMap(values)

	return nil
}

// Canonical renders data as an indented JSON object with sorted keys and no
// trailing newline. Every key occupies its own line so line diffs align with
// entries. A missing or empty map renders as "{}".
func Canonical(data DataMap) string {
	if data.Len() == 0 {
		return "{}"
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	// Encoding a map[string]string cannot fail.
	_ = encoder.Encode(data.ToMap())

	return strings.TrimSuffix(buf.String(), "\n")
}
