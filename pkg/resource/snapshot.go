package resource

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

var (
	// ErrInvalidName is returned when a snapshot name is not a valid DNS subdomain.
	ErrInvalidName = errors.New("invalid resource name")
	// ErrInvalidNamespace is returned when a namespace is not a valid DNS label.
	ErrInvalidNamespace = errors.New("invalid namespace")
	// ErrInvalidIdentity is returned when an identity string cannot be parsed.
	ErrInvalidIdentity = errors.New("invalid resource identity")
)

// Identity addresses a single record in a store.
type Identity struct {
	Kind      Kind   `json:"kind"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// String renders the identity as kind/namespace/name.
func (i Identity) String() string {
	return fmt.Sprintf("%s/%s/%s", i.Kind, i.Namespace, i.Name)
}

// Less orders identities by kind, namespace and name.
func (i Identity) Less(other Identity) bool {
	if i.Kind != other.Kind {
		return i.Kind < other.Kind
	}

	if i.Namespace != other.Namespace {
		return i.Namespace < other.Namespace
	}

	return i.Name < other.Name
}

// ParseIdentity parses "kind/namespace/name".
func ParseIdentity(value string) (Identity, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return Identity{}, fmt.Errorf("%w: %q (expected kind/namespace/name)", ErrInvalidIdentity, value)
	}

	kind, err := ParseKind(parts[0])
	if err != nil {
		return Identity{}, err
	}

	return Identity{Kind: kind, Namespace: parts[1], Name: parts[2]}, nil
}

// Snapshot is a point-in-time capture of a record's data plus its existence.
type Snapshot struct {
	Identity

	Data   DataMap `json:"data"`
	Exists bool    `json:"exists"`
}

// NewSnapshot validates the identity and returns an existing snapshot holding data.
func NewSnapshot(kind Kind, namespace, name string, data DataMap) (Snapshot, error) {
	identity := Identity{Kind: kind, Namespace: namespace, Name: name}

	err := identity.Validate()
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Identity: identity, Data: data.Clone(), Exists: true}, nil
}

// Missing returns a placeholder snapshot for an identity absent from a store.
func Missing(identity Identity) Snapshot {
	return Snapshot{Identity: identity}
}

// Validate checks that the identity can address a Kubernetes-style record.
func (i Identity) Validate() error {
	switch i.Kind {
	case KindSecret, KindConfigMap:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, i.Kind)
	}

	if errs := validation.IsDNS1123Subdomain(i.Name); len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidName, i.Name, strings.Join(errs, "; "))
	}

	if errs := validation.IsDNS1123Label(i.Namespace); len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidNamespace, i.Namespace, strings.Join(errs, "; "))
	}

	return nil
}

// DeepCopy returns a snapshot whose data can be modified without affecting s.
func (s Snapshot) DeepCopy() Snapshot {
	out := s
	out.Data = s.Data.Clone()

	return out
}

// Canonical returns the canonical text of the snapshot's data.
func (s Snapshot) Canonical() string {
	return Canonical(s.Data)
}
