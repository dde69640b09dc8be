package v1alpha1

import (
	"fmt"
	"strings"
)

// EnumValuer is implemented by string enums that can list their accepted values.
type EnumValuer interface {
	ValidValues() []string
}

// StoreType selects the transport of a store.
type StoreType string

const (
	// StoreTypeKube reads and writes a Kubernetes cluster.
	StoreTypeKube StoreType = "kube"
	// StoreTypeFile reads and writes a directory of YAML manifests.
	StoreTypeFile StoreType = "file"
)

// ValidStoreTypes returns supported store types.
func ValidStoreTypes() []StoreType {
	return []StoreType{StoreTypeKube, StoreTypeFile}
}

// Set sets the StoreType from a string value.
func (s *StoreType) Set(value string) error {
	for _, storeType := range ValidStoreTypes() {
		if strings.EqualFold(value, string(storeType)) {
			*s = storeType

			return nil
		}
	}

	return fmt.Errorf("%w: %s (valid options: %s, %s)", ErrInvalidStoreType, value, StoreTypeKube, StoreTypeFile)
}

// String returns the string representation of the StoreType.
func (s *StoreType) String() string {
	return string(*s)
}

// Type returns the type of the StoreType.
func (s *StoreType) Type() string {
	return "StoreType"
}

// ValidValues returns all valid StoreType values as strings.
func (s *StoreType) ValidValues() []string {
	return []string{string(StoreTypeKube), string(StoreTypeFile)}
}
