package compare

import (
	"errors"
	"fmt"
	"slices"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/patch"
)

var (
	// ErrNothingToCompare is returned when neither snapshot exists.
	ErrNothingToCompare = errors.New("neither snapshot exists")
	// ErrIdentityMismatch is returned when the two snapshots address different resources.
	ErrIdentityMismatch = errors.New("snapshots address different resources")
)

const (
	// DefaultPrimaryLabel labels the old side of generated patches.
	DefaultPrimaryLabel = "primary"
	// DefaultSecondaryLabel labels the new side of generated patches.
	DefaultSecondaryLabel = "secondary"
)

// Comparator classifies snapshot pairs and generates patch text for differences.
type Comparator struct {
	generator      *patch.Generator
	primaryLabel   string
	secondaryLabel string
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithLabels sets the side labels written into patch headers.
func WithLabels(primary, secondary string) Option {
	return func(c *Comparator) {
		if primary != "" {
			c.primaryLabel = primary
		}

		if secondary != "" {
			c.secondaryLabel = secondary
		}
	}
}

// WithGenerator replaces the patch generator.
func WithGenerator(generator *patch.Generator) Option {
	return func(c *Comparator) {
		if generator != nil {
			c.generator = generator
		}
	}
}

// NewComparator creates a Comparator producing full-context patches.
func NewComparator(opts ...Option) *Comparator {
	comparator := &Comparator{
		generator:      patch.NewGenerator(),
		primaryLabel:   DefaultPrimaryLabel,
		secondaryLabel: DefaultSecondaryLabel,
	}

	for _, opt := range opts {
		opt(comparator)
	}

	return comparator
}

// Labels returns the primary and secondary side labels.
func (c *Comparator) Labels() (string, string) {
	return c.primaryLabel, c.secondaryLabel
}

// Generator returns the patch generator used for differences.
func (c *Comparator) Generator() *patch.Generator {
	return c.generator
}

// Compare classifies one resource. At least one snapshot must exist and both
// must carry the same identity.
func (c *Comparator) Compare(primary, secondary resource.Snapshot) (Result, error) {
	if primary.Identity != secondary.Identity {
		return Result{}, fmt.Errorf("%w: %s and %s", ErrIdentityMismatch, primary.Identity, secondary.Identity)
	}

	result := Result{
		Identity:  primary.Identity,
		Primary:   primary.DeepCopy(),
		Secondary: secondary.DeepCopy(),
	}

	switch {
	case !primary.Exists && !secondary.Exists:
		return Result{}, fmt.Errorf("%w: %s", ErrNothingToCompare, primary.Identity)
	case !secondary.Exists:
		result.Status = StatusPrimaryOnly

		return result, nil
	case !primary.Exists:
		result.Status = StatusSecondaryOnly

		return result, nil
	}

	oldText := primary.Canonical()
	newText := secondary.Canonical()

	if oldText == newText {
		result.Status = StatusIdentical

		return result, nil
	}

	result.Status = StatusDifferent
	result.PatchText = c.generator.CreatePatch(
		primary.Name, oldText, newText, c.primaryLabel, c.secondaryLabel,
	)

	if primary.Kind.PerKey() {
		result.KeyPatches = c.generator.CreateKeyPatches(
			primary.Data, secondary.Data, c.primaryLabel, c.secondaryLabel,
		)
	}

	return result, nil
}

// CompareAll pairs snapshots from both stores by identity and compares each
// pair. Snapshots that do not exist are ignored; when a side lists the same
// identity twice the later entry wins. Results are ordered by kind, namespace
// and name.
func (c *Comparator) CompareAll(primary, secondary []resource.Snapshot) []Result {
	primaryByID := index(primary)
	secondaryByID := index(secondary)

	identities := make([]resource.Identity, 0, len(primaryByID)+len(secondaryByID))
	for id := range primaryByID {
		identities = append(identities, id)
	}

	for id := range secondaryByID {
		if _, ok := primaryByID[id]; !ok {
			identities = append(identities, id)
		}
	}

	slices.SortFunc(identities, func(a, b resource.Identity) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})

	results := make([]Result, 0, len(identities))

	for _, id := range identities {
		left, ok := primaryByID[id]
		if !ok {
			left = resource.Missing(id)
		}

		right, ok := secondaryByID[id]
		if !ok {
			right = resource.Missing(id)
		}

		// At least one side exists for every collected identity.
		result, err := c.Compare(left, right)
		if err != nil {
			continue
		}

		results = append(results, result)
	}

	return results
}

func index(snapshots []resource.Snapshot) map[resource.Identity]resource.Snapshot {
	byID := make(map[resource.Identity]resource.Snapshot, len(snapshots))

	for _, snapshot := range snapshots {
		if !snapshot.Exists {
			continue
		}

		byID[snapshot.Identity] = snapshot
	}

	return byID
}
