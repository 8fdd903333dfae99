package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/logstream/src/internal/log"
)

// CloseOrWarn closes c and logs a warning when that fails.
func CloseOrWarn(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warnf("Failed to close: %v", err)
	}
}

// OpenAppend opens path for appending, creating it and its parent directory when missing.
func OpenAppend(path string) (*os.File, error) {
	if err := EnsureParentDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
