// Package container queries a container runtime for the facts needed to
// locate a container's filesystem on the host.
package container

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the runtime does not know the container.
var ErrNotFound = errors.New("container not found")

// Graph driver data keys reported by the runtime.
const (
	KeyDeviceName = "DeviceName"
	KeyMergedDir  = "MergedDir"
)

// Metadata is the backend-specific description of where a container's
// layer lives on disk.
type Metadata struct {
	Driver     string
	DeviceName string // devicemapper
	MergedDir  string // overlay2
	Data       map[string]string
}

// MetadataFromData builds Metadata from the runtime's raw graph driver map.
func MetadataFromData(driver string, data map[string]string) Metadata {
	return Metadata{
		Driver:     driver,
		DeviceName: data[KeyDeviceName],
		MergedDir:  data[KeyMergedDir],
		Data:       data,
	}
}

// Inspector is the subset of a container runtime's introspection API used to
// resolve container storage.
type Inspector interface {
	// DriverName returns the runtime's global storage driver.
	DriverName(ctx context.Context) (string, error)
	// IDOf resolves a container name or ID prefix to its full ID.
	IDOf(ctx context.Context, name string) (string, error)
	// GraphDriverData returns the storage metadata for a container ID.
	GraphDriverData(ctx context.Context, id string) (Metadata, error)
}
