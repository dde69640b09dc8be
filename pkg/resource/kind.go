package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a kind is not one of the supported record kinds.
var ErrUnknownKind = errors.New("unknown resource kind")

// Kind identifies the type of key-value record.
type Kind string

const (
	// KindSecret is an opaque record whose values are base64 encoded payloads.
	KindSecret Kind = "Secret"
	// KindConfigMap is a multi-entry configuration record compared key by key.
	KindConfigMap Kind = "ConfigMap"
)

// ValidKinds returns the supported kinds in a stable order.
func ValidKinds() []Kind {
	return []Kind{KindSecret, KindConfigMap}
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Opaque reports whether values of this kind carry encoded payloads that can be
// decoded for display.
func (k Kind) Opaque() bool {
	return k == KindSecret
}

// PerKey reports whether records of this kind are additionally diffed key by key.
func (k Kind) PerKey() bool {
	return k == KindConfigMap
}

// Set implements pflag.Value.
func (k *Kind) Set(value string) error {
	parsed, err := ParseKind(value)
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// Type implements pflag.Value.
func (k *Kind) Type() string {
	return "Kind"
}

// ParseKind resolves a case-insensitive kind name, accepting the common short
// forms used by kubectl.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "secret", "secrets":
		return KindSecret, nil
	case "configmap", "configmaps", "cm":
		return KindConfigMap, nil
	default:
		return "", fmt.Errorf("%w: %q (valid options: %s, %s)", ErrUnknownKind, value, KindSecret, KindConfigMap)
	}
}
