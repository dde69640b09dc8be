package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
)

// ErrInvalidDirection is returned for an unknown merge direction.
var ErrInvalidDirection = errors.New("invalid merge direction")

// Direction selects which side is copied into the other.
type Direction string

const (
	// PrimaryToSecondary copies selected primary content into the secondary store.
	PrimaryToSecondary Direction = "primary-to-secondary"
	// SecondaryToPrimary copies selected secondary content into the primary store.
	SecondaryToPrimary Direction = "secondary-to-primary"
)

// String returns the direction name.
func (d Direction) String() string {
	return string(d)
}

// Set implements pflag.Value.
func (d *Direction) Set(value string) error {
	parsed, err := ParseDirection(value)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Type implements pflag.Value.
func (d *Direction) Type() string {
	return "Direction"
}

// ParseDirection accepts the full names and the short forms "p2s" and "s2p".
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(PrimaryToSecondary), "p2s":
		return PrimaryToSecondary, nil
	case string(SecondaryToPrimary), "s2p":
		return SecondaryToPrimary, nil
	default:
		return "", fmt.Errorf(
			"%w: %q (valid options: %s, %s)",
			ErrInvalidDirection, value, PrimaryToSecondary, SecondaryToPrimary,
		)
	}
}

// Endpoints returns the source and destination snapshots of result.
func (d Direction) Endpoints(result compare.Result) (resource.Snapshot, resource.Snapshot, error) {
	switch d {
	case PrimaryToSecondary:
		return result.Primary, result.Secondary, nil
	case SecondaryToPrimary:
		return result.Secondary, result.Primary, nil
	default:
		return resource.Snapshot{}, resource.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidDirection, d)
	}
}
