package v1alpha1

import "errors"

// ErrInvalidStoreType is returned when an invalid store type is specified.
var ErrInvalidStoreType = errors.New("invalid store type")

// ErrStorePathRequired is returned when a file store has no path.
var ErrStorePathRequired = errors.New("file store requires a path")

// ErrInvalidAPIVersion is returned when the configuration declares an unknown apiVersion or kind.
var ErrInvalidAPIVersion = errors.New("invalid apiVersion or kind")

// ErrNegativeValue is returned when a count or duration is negative.
var ErrNegativeValue = errors.New("value must not be negative")
