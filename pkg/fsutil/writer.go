package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteNewFile writes content to output, creating parent directories as
// needed. It never overwrites: an existing file yields ErrFileExists.
func WriteNewFile(content string, output string) error {
	if output == "" {
		return ErrEmptyOutputPath
	}

	output = filepath.Clean(output)

	dir := filepath.Dir(output)

	err := os.MkdirAll(dir, dirPermUserGroupRX)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermUserRW)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, output)
		}

		return fmt.Errorf("failed to create file %s: %w", output, err)
	}

	_, err = file.WriteString(content)
	if err != nil {
		_ = file.Close()

		return fmt.Errorf("failed to write file %s: %w", output, err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("failed to close file %s: %w", output, err)
	}

	return nil
}
