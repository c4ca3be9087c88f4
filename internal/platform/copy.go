package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, DefaultBufferSize)
		return &b
	},
}

// CopyFile copies the file at params.SrcPath to params.DstPath, creating or
// truncating the destination. Both files are closed before CopyFile returns,
// whatever the outcome.
func CopyFile(ctx context.Context, params CopyFileParams) (CopyResult, error) {
	if params.BufferSize > MaxBufferSize {
		return CopyResult{}, &CopyError{
			Op:   "copy",
			Path: params.DstPath,
			Err:  fmt.Errorf("%w: %d > %d", ErrBufferSize, params.BufferSize, MaxBufferSize),
		}
	}

	src, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, &CopyError{Op: "open", Path: params.SrcPath, Err: err}
	}

	info, err := src.Stat()
	if err != nil {
		src.Close()
		return CopyResult{}, &CopyError{Op: "stat", Path: params.SrcPath, Err: err}
	}
	if info.IsDir() {
		src.Close()
		return CopyResult{}, &CopyError{Op: "open", Path: params.SrcPath, Err: ErrIsDir}
	}

	// Truncating the destination would erase a source that shares its inode.
	if dstInfo, err := os.Stat(params.DstPath); err == nil && os.SameFile(info, dstInfo) {
		src.Close()
		return CopyResult{}, &CopyError{Op: "open", Path: params.DstPath, Err: ErrSameFile}
	}

	dst, err := os.OpenFile(params.DstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		src.Close()
		return CopyResult{}, &CopyError{Op: "open", Path: params.DstPath, Err: err}
	}
	if err := reserve(dst, info.Size()); err != nil {
		slog.Debug("preallocation skipped", "path", params.DstPath, "error", err)
	}

	return copyAndClose(ctx, src, dst, info.Size(), params)
}

// copyAndClose copies src to dst and closes both. A close error on the
// destination is reported when the copy itself succeeded, since buffered
// data may not have reached the disk.
func copyAndClose(
	ctx context.Context,
	src io.ReadCloser,
	dst io.WriteCloser,
	size int64,
	params CopyFileParams,
) (result CopyResult, err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = &CopyError{Op: "close", Path: params.SrcPath, Err: cerr}
		}
	}()
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = &CopyError{Op: "close", Path: params.DstPath, Err: cerr}
		}
	}()

	if params.BufferSize <= 0 && params.Limiter == nil {
		srcFile, srcOK := src.(*os.File)
		dstFile, dstOK := dst.(*os.File)
		if srcOK && dstOK {
			n, ferr := copyFast(ctx, srcFile, dstFile)
			switch {
			case ferr == nil && (n > 0 || size == 0):
				return CopyResult{BytesWritten: n, Method: CopyFileRange}, nil
			case ferr != nil && (n > 0 || !isFallbackErr(ferr)):
				return CopyResult{BytesWritten: n, Method: CopyFileRange},
					&CopyError{Op: "copy", Path: params.DstPath, Err: ferr}
			}
			// Nothing was transferred: fall back to read/write.
		}
	}

	n, err := copyReadWrite(ctx, src, dst, params)
	return CopyResult{BytesWritten: n, Method: ReadWrite}, err
}

// copyReadWrite copies sequentially through a bounded buffer.
func copyReadWrite(ctx context.Context, src io.Reader, dst io.Writer, params CopyFileParams) (int64, error) {
	var buf []byte
	if params.BufferSize > 0 {
		buf = make([]byte, params.BufferSize)
	} else {
		bufp := bufPool.Get().(*[]byte)
		defer bufPool.Put(bufp)
		buf = *bufp
	}

	if params.Limiter != nil {
		src = newRateLimitedReader(ctx, src, params.Limiter)
	}

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			if nw > 0 {
				total += int64(nw)
			}
			if werr != nil {
				return total, &CopyError{Op: "write", Path: params.DstPath, Err: werr}
			}
			if nw != nr {
				return total, &CopyError{Op: "write", Path: params.DstPath, Err: io.ErrShortWrite}
			}
		}
		if errors.Is(rerr, io.EOF) {
			return total, nil
		}
		if rerr != nil {
			return total, &CopyError{Op: "read", Path: params.SrcPath, Err: rerr}
		}
	}
}
