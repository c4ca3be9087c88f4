package platform

import (
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

// DefaultBufferSize is the read/write buffer used when no size is requested.
const DefaultBufferSize = 1 << 20 // 1 MiB

// MaxBufferSize bounds an explicitly requested buffer.
const MaxBufferSize = 1 << 30 // 1 GiB

// ErrIsDir is returned when the copy source is a directory.
var ErrIsDir = errors.New("is a directory (only single files can be copied)")

// ErrSameFile is returned when source and destination are the same file.
var ErrSameFile = errors.New("source and destination are the same file")

// ErrBufferSize is returned for a buffer size above MaxBufferSize.
var ErrBufferSize = errors.New("buffer size out of range")

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyFileParams describes what to copy.
type CopyFileParams struct {
	SrcPath string
	DstPath string
	// BufferSize forces a read/write copy through a buffer of this many
	// bytes. Zero lets the platform pick the fastest method.
	BufferSize int
	// Limiter throttles throughput. Implies a read/write copy.
	Limiter *rate.Limiter
}

// CopyError records the failed operation and the file it was applied to.
type CopyError struct {
	Op   string
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
