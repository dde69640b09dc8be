package merge

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/diffview"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

var (
	// ErrTargetMissing is returned when the destination snapshot does not exist.
	ErrTargetMissing = errors.New("merge destination does not exist")
	// ErrEmptySelection is returned when no selected line belongs to the resource.
	ErrEmptySelection = errors.New("no lines selected for resource")
)

var keyPattern = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"\s*:`)

// Merged is a reconstructed destination snapshot plus a description of what changed.
type Merged struct {
	Snapshot  resource.Snapshot `json:"snapshot"`
	Direction Direction         `json:"direction"`
	// Keys lists the keys copied from the source, sorted.
	Keys []string `json:"keys,omitempty"`
	// Replaced is set when the whole destination data was replaced by the source data.
	Replaced bool `json:"replaced,omitempty"`
}

// Reconstructor applies selections onto destination snapshots.
type Reconstructor struct{}

// NewReconstructor creates a Reconstructor.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{}
}

// Reconstruct applies the lines of selection that belong to result's resource
// onto a deep copy of the destination chosen by direction.
func (r *Reconstructor) Reconstruct(
	result compare.Result,
	selection diffview.Selection,
	direction Direction,
) (Merged, error) {
	source, destination, err := direction.Endpoints(result)
	if err != nil {
		return Merged{}, err
	}

	if !destination.Exists {
		return Merged{}, fmt.Errorf("%w: %s (%s)", ErrTargetMissing, result.Identity, direction)
	}

	lines := selection.ForResource(result.Identity)
	if len(lines) == 0 {
		return Merged{}, fmt.Errorf("%w: %s", ErrEmptySelection, result.Identity)
	}

	overwrites, replace := planOverwrites(lines, source, destination)

	merged := Merged{Snapshot: destination.DeepCopy(), Direction: direction}

	if replace {
		merged.Snapshot.Data = source.Data.Clone()
		merged.Replaced = true
		merged.Keys = changedKeys(destination.Data, source.Data)

		return merged, nil
	}

	data, err := applyOverwrites(destination.Data, source.Data, overwrites)
	if err != nil {
		return Merged{}, fmt.Errorf("apply selection to %s: %w", result.Identity, err)
	}

	merged.Snapshot.Data = data
	merged.Keys = overwrites

	return merged, nil
}

// planOverwrites returns the sorted keys to copy from source, or replace=true
// when a whole-blob group yields no recognisable key.
func planOverwrites(lines []diffview.Line, source, destination resource.Snapshot) ([]string, bool) {
	order, groups := diffview.GroupByScope(lines)

	var keys []string

	for _, scope := range order {
		if scope.SubKey != "" {
			keys = append(keys, scope.SubKey)

			continue
		}

		recovered := RecoverKeys(groups[scope], source.Data, destination.Data)
		if len(recovered) == 0 {
			return nil, true
		}

		keys = append(keys, recovered...)
	}

	slices.Sort(keys)

	return slices.Compact(keys), false
}

// RecoverKeys extracts top-level keys from `"<key>":` patterns in the line
// contents. Only keys known to source or destination are returned, in
// first-seen order without duplicates.
func RecoverKeys(lines []diffview.Line, source, destination resource.DataMap) []string {
	var keys []string

	for _, line := range lines {
		for _, match := range keyPattern.FindAllStringSubmatch(line.Content, -1) {
			var key string

			err := json.Unmarshal([]byte(`"`+match[1]+`"`), &key)
			if err != nil {
				continue
			}

			_, inSource := source.Get(key)
			_, inDestination := destination.Get(key)

			if (inSource || inDestination) && !slices.Contains(keys, key) {
				keys = append(keys, key)
			}
		}
	}

	return keys
}

// applyOverwrites copies keys from source into destination with a JSON merge
// patch. Keys absent from source are removed from the destination. The
// destination's key order is kept and new keys are appended.
func applyOverwrites(destination, source resource.DataMap, keys []string) (resource.DataMap, error) {
	patchDoc := make(map[string]*string, len(keys))

	for _, key := range keys {
		if value, ok := source.Get(key); ok {
			patchDoc[key] = &value
		} else {
			patchDoc[key] = nil
		}
	}

	patchBytes, err := json.Marshal(patchDoc)
	if err != nil {
		return resource.DataMap{}, fmt.Errorf("encode merge patch: %w", err)
	}

	mergedBytes, err := jsonpatch.MergePatch([]byte(resource.Canonical(destination)), patchBytes)
	if err != nil {
		return resource.DataMap{}, fmt.Errorf("apply merge patch: %w", err)
	}

	var values map[string]string

	err = json.Unmarshal(mergedBytes, &values)
	if err != nil {
		return resource.DataMap{}, fmt.Errorf("decode merged data: %w", err)
	}

	var data resource.DataMap

	for _, key := range destination.Keys() {
		if value, ok := values[key]; ok {
			data.Set(key, value)
		}
	}

	for _, key := range keys {
		if value, ok := values[key]; ok {
			data.Set(key, value)
		}
	}

	return data, nil
}

func changedKeys(before, after resource.DataMap) []string {
	var keys []string

	for _, key := range append(before.Keys(), after.Keys()...) {
		oldValue, inBefore := before.Get(key)
		newValue, inAfter := after.Get(key)

		if inBefore != inAfter || oldValue != newValue {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return slices.Compact(keys)
}
