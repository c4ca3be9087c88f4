package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserve asks the filesystem for size bytes of backing storage. The file
// length is left alone so a copy that stops early has no zero tail.
func reserve(f *os.File, size int64) error {
	if size <= 0 {
		return nil
	}
	return unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size) //nolint:gosec // G115: fd fits in int
}
