//go:build linux

package platform

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// maxCopyChunk bounds a single copy_file_range call, and so how long a
// cancellation can go unnoticed.
const maxCopyChunk = 64 << 20

// copyFast copies src to dst with copy_file_range(2), advancing both file
// offsets, until src reports EOF or ctx is done.
func copyFast(ctx context.Context, src, dst *os.File) (int64, error) {
	srcFd := int(src.Fd()) //nolint:gosec // G115: fd values are small non-negative integers
	dstFd := int(dst.Fd()) //nolint:gosec // G115: fd values are small non-negative integers

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := unix.CopyFileRange(srcFd, nil, dstFd, nil, maxCopyChunk, 0)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += int64(n)
	}
}

// isFallbackErr returns true if err should trigger a fallback to read/write.
func isFallbackErr(err error) bool {
	for _, e := range []error{unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP, unix.EOPNOTSUPP} {
		if errors.Is(err, e) {
			return true
		}
	}
	return errors.Is(err, errors.ErrUnsupported)
}
