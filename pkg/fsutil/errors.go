package fsutil

import "errors"

var (
	// ErrEmptyOutputPath is returned when an output path is empty.
	ErrEmptyOutputPath = errors.New("output path cannot be empty")
	// ErrFileExists is returned when a create-only write targets an existing file.
	ErrFileExists = errors.New("file already exists")
)

const (
	dirPermUserGroupRX = 0o750
	filePermUserRW     = 0o600
)
