package v1alpha1

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/ksync/pkg/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Validate checks the configuration and returns every problem found.
func (s *Sync) Validate() error {
	var errs []error

	if (s.APIVersion != "" && s.APIVersion != APIVersion) || (s.Kind != "" && s.Kind != Kind) {
		errs = append(errs, fmt.Errorf(
			"%w: got %s %s, expected %s %s", ErrInvalidAPIVersion, s.APIVersion, s.Kind, APIVersion, Kind,
		))
	}

	errs = append(errs, validateStore("primary", s.Spec.Primary))
	errs = append(errs, validateStore("secondary", s.Spec.Secondary))

	for _, namespace := range s.Spec.Namespaces {
		if msgs := validation.IsDNS1123Label(namespace); len(msgs) > 0 {
			errs = append(errs, fmt.Errorf("%w: %q: %s", resource.ErrInvalidNamespace, namespace, msgs[0]))
		}
	}

	_, err := s.Spec.ResourceKinds()
	errs = append(errs, err)

	if s.Spec.Diff.ContextLines < 0 {
		errs = append(errs, fmt.Errorf("%w: diff.contextLines", ErrNegativeValue))
	}

	if s.Spec.Fetch.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("%w: fetch.parallelism", ErrNegativeValue))
	}

	durations := []struct {
		name  string
		value metav1.Duration
	}{
		{"fetch.timeout", s.Spec.Fetch.Timeout},
		{"fetch.retryTimeout", s.Spec.Fetch.RetryTimeout},
		{"fetch.retryInterval", s.Spec.Fetch.RetryInterval},
	}

	for _, duration := range durations {
		if duration.value.Duration < 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrNegativeValue, duration.name))
		}
	}

	return errors.Join(errs...)
}

// ResourceKinds parses the configured kinds, defaulting to every supported kind.
func (s Spec) ResourceKinds() ([]resource.Kind, error) {
	if len(s.Kinds) == 0 {
		return resource.ValidKinds(), nil
	}

	kinds := make([]resource.Kind, 0, len(s.Kinds))

	for _, name := range s.Kinds {
		kind, err := resource.ParseKind(name)
		if err != nil {
			return nil, err
		}

		kinds = append(kinds, kind)
	}

	return kinds, nil
}

func validateStore(side string, store Store) error {
	switch store.Type {
	case StoreTypeKube:
		return nil
	case StoreTypeFile:
		if store.Path == "" {
			return fmt.Errorf("%w: %s", ErrStorePathRequired, side)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s: %q", ErrInvalidStoreType, side, store.Type)
	}
}
