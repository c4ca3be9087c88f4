// Package engine runs a single copy between the host and a container's root
// filesystem.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bamsammich/dockercp/internal/endpoint"
	"github.com/bamsammich/dockercp/internal/event"
	"github.com/bamsammich/dockercp/internal/platform"
)

// Resolver maps a container reference to the host path of its root filesystem.
type Resolver interface {
	ResolveContainer(ctx context.Context, ref string) (string, error)
}

// Config describes a copy operation.
type Config struct {
	Src        string // raw source argument
	Dst        string // raw destination argument
	BufferSize int    // read/write buffer size; 0 lets the platform pick
	BWLimit    int64  // bytes per second; 0 disables throttling
	Verify     bool
	DryRun     bool
	Resolver   Resolver
	Events     event.Handler
}

// Result is the outcome of a copy operation.
type Result struct {
	Container string
	Root      string
	Src       string // host source path
	Dst       string // host destination path
	Bytes     int64
	Method    platform.CopyMethod
	Elapsed   time.Duration
	Verified  bool
	Err       error
}

var errNoResolver = errors.New("engine: no resolver configured")

// Run executes a copy operation, blocking until complete.
func Run(ctx context.Context, cfg Config) Result {
	pair, err := endpoint.ParsePair(cfg.Src, cfg.Dst)
	if err != nil {
		return Result{Err: err}
	}
	if cfg.Resolver == nil {
		return Result{Err: errNoResolver}
	}

	ref := pair.Container()
	res := Result{Container: ref}

	root, err := cfg.Resolver.ResolveContainer(ctx, ref)
	if err != nil {
		res.Err = fmt.Errorf("resolve %s: %w", ref, err)
		return res
	}
	res.Root = root
	cfg.Events.Emit(event.Event{Type: event.Resolved, Container: ref, Root: root})

	res.Src, res.Dst, err = pair.HostPaths(root)
	if err != nil {
		res.Err = err
		return res
	}

	if cfg.DryRun {
		slog.Info("dry run", "src", res.Src, "dst", res.Dst, "container", ref)
		return res
	}

	params := platform.CopyFileParams{
		SrcPath:    res.Src,
		DstPath:    res.Dst,
		BufferSize: cfg.BufferSize,
	}
	if cfg.BWLimit > 0 {
		params.Limiter = platform.NewBWLimiter(cfg.BWLimit)
	}

	var size int64
	if info, err := os.Stat(res.Src); err == nil {
		size = info.Size()
	}
	cfg.Events.Emit(event.Event{Type: event.CopyStarted, Container: ref, Src: res.Src, Dst: res.Dst, Size: size})
	slog.Debug("copying",
		"src", res.Src,
		"dst", res.Dst,
		"into_container", pair.ToContainer(),
		"size", size,
		"buffer", cfg.BufferSize,
		"bwlimit", cfg.BWLimit,
	)

	start := time.Now()
	cr, err := platform.CopyFile(ctx, params)
	res.Elapsed = time.Since(start)
	res.Bytes = cr.BytesWritten
	res.Method = cr.Method
	if err != nil {
		res.Err = err
		cfg.Events.Emit(event.Event{
			Type: event.CopyFailed, Container: ref,
			Src: res.Src, Dst: res.Dst, Size: res.Bytes, Error: err,
		})
		return res
	}
	cfg.Events.Emit(event.Event{
		Type: event.CopyCompleted, Container: ref,
		Src: res.Src, Dst: res.Dst, Size: res.Bytes,
		Elapsed: res.Elapsed, Method: res.Method.String(),
	})

	if cfg.Verify {
		cfg.Events.Emit(event.Event{Type: event.VerifyStarted, Src: res.Src, Dst: res.Dst})
		if err := VerifyFile(res.Src, res.Dst); err != nil {
			res.Err = err
			cfg.Events.Emit(event.Event{Type: event.VerifyFailed, Src: res.Src, Dst: res.Dst, Error: err})
			return res
		}
		res.Verified = true
		cfg.Events.Emit(event.Event{Type: event.VerifyOK, Src: res.Src, Dst: res.Dst})
	}

	return res
}
