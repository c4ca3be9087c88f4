// Package storage maps a container to the host path of its root filesystem,
// based on the runtime's storage backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bamsammich/dockercp/internal/container"
	"github.com/bamsammich/dockercp/internal/mounts"
)

// Kind identifies how the runtime lays out container layers on disk.
type Kind string

const (
	DeviceMapper Kind = "devicemapper" // thin-provisioned block devices
	Overlay2     Kind = "overlay2"     // overlay filesystem with a merged directory
)

// rootfsDir is where a devicemapper container's filesystem sits under the
// device's mount point.
const rootfsDir = "rootfs"

// Supported reports whether the resolver knows how to handle k.
func (k Kind) Supported() bool {
	return k == DeviceMapper || k == Overlay2
}

// MountLookupFunc finds the first mount whose source names device.
type MountLookupFunc func(device string) (mounts.Entry, bool, error)

// Resolver resolves container references to host paths.
type Resolver struct {
	inspector   container.Inspector
	lookupMount MountLookupFunc
}

// NewResolver creates a Resolver that searches the mountinfo table at
// mountsPath (the kernel's when empty) for devicemapper lookups.
func NewResolver(inspector container.Inspector, mountsPath string) *Resolver {
	return &Resolver{
		inspector: inspector,
		lookupMount: func(device string) (mounts.Entry, bool, error) {
			return mounts.Find(mountsPath, device)
		},
	}
}

// NewResolverWithMounts creates a Resolver with a custom mount lookup (for testing).
func NewResolverWithMounts(inspector container.Inspector, lookup MountLookupFunc) *Resolver {
	return &Resolver{inspector: inspector, lookupMount: lookup}
}

// ResolveContainer queries the runtime's storage driver and resolves ref
// with it.
func (r *Resolver) ResolveContainer(ctx context.Context, ref string) (string, error) {
	driver, err := r.inspector.DriverName(ctx)
	if err != nil {
		return "", err
	}
	return r.Resolve(ctx, ref, Kind(driver))
}

// Resolve returns the host path of ref's root filesystem under the storage
// backend kind.
func (r *Resolver) Resolve(ctx context.Context, ref string, kind Kind) (string, error) {
	if !kind.Supported() {
		return "", &UnsupportedBackendError{Driver: string(kind)}
	}
	if ref == "" {
		return "", &ResolutionError{Driver: kind, Reason: "empty container reference"}
	}

	id, err := r.inspector.IDOf(ctx, ref)
	if err != nil {
		return "", err
	}

	md, err := r.inspector.GraphDriverData(ctx, id)
	if err != nil {
		return "", err
	}
	if md.Driver != "" && md.Driver != string(kind) {
		slog.Warn("container storage driver differs from daemon driver",
			"container", ref,
			"container_driver", md.Driver,
			"daemon_driver", kind,
		)
	}

	var path string
	switch kind {
	case DeviceMapper:
		path, err = r.resolveDeviceMapper(ref, md)
	case Overlay2:
		path, err = resolveOverlay(ref, md)
	}
	if err != nil {
		return "", err
	}

	slog.Debug("resolved container storage",
		"container", ref,
		"id", id,
		"driver", kind,
		"path", path,
	)
	return path, nil
}

func (r *Resolver) resolveDeviceMapper(ref string, md container.Metadata) (string, error) {
	if md.DeviceName == "" {
		return "", &ResolutionError{
			Container: ref,
			Driver:    DeviceMapper,
			Reason:    missingKey(container.KeyDeviceName, md),
		}
	}

	entry, ok, err := r.lookupMount(md.DeviceName)
	if err != nil {
		return "", &ResolutionError{
			Container: ref,
			Driver:    DeviceMapper,
			Reason:    "read mount table",
			Err:       err,
		}
	}
	if !ok {
		return "", &ResolutionError{
			Container: ref,
			Driver:    DeviceMapper,
			Reason:    fmt.Sprintf("device %s is not mounted", md.DeviceName),
		}
	}
	return filepath.Join(entry.MountPoint, rootfsDir), nil
}

func resolveOverlay(ref string, md container.Metadata) (string, error) {
	if md.MergedDir == "" {
		return "", &ResolutionError{
			Container: ref,
			Driver:    Overlay2,
			Reason:    missingKey(container.KeyMergedDir, md),
		}
	}
	return md.MergedDir, nil
}

// missingKey describes a graph driver key the runtime left out, listing the
// keys it did report.
func missingKey(key string, md container.Metadata) string {
	reported := slices.Sorted(maps.Keys(md.Data))
	if len(reported) == 0 {
		return "runtime reported no " + key
	}
	return fmt.Sprintf("runtime reported no %s (has %s)", key, strings.Join(reported, ", "))
}
