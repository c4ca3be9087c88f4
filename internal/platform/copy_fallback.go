//go:build !linux

package platform

import (
	"context"
	"errors"
	"os"
)

// copyFast is not available on this platform; callers fall back to read/write.
func copyFast(context.Context, *os.File, *os.File) (int64, error) {
	return 0, errors.ErrUnsupported
}

func isFallbackErr(err error) bool {
	return errors.Is(err, errors.ErrUnsupported)
}
