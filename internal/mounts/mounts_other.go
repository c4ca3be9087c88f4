//go:build !linux

package mounts

import (
	"errors"
	"fmt"
)

// Find is only implemented on Linux, the one platform with devicemapper.
func Find(string, string) (Entry, bool, error) {
	return Entry{}, false, fmt.Errorf("read mount table: %w", errors.ErrUnsupported)
}
