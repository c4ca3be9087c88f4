package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic handling.
var (
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
	ErrResolution         = errors.New("cannot resolve container storage")
)

// UnsupportedBackendError reports a storage driver the resolver cannot map
// to a host path.
type UnsupportedBackendError struct {
	Driver string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("%s: %q (supported: %s, %s)", ErrUnsupportedBackend, e.Driver, DeviceMapper, Overlay2)
}

func (e *UnsupportedBackendError) Unwrap() error {
	return ErrUnsupportedBackend
}

// ResolutionError wraps a failure to locate a container's root filesystem.
type ResolutionError struct {
	Container string
	Driver    Kind
	Reason    string
	Err       error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("%s %s (%s): %s", ErrResolution, e.Container, e.Driver, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Err}
}
