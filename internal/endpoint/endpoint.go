package endpoint

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// ErrAmbiguousEndpoint is returned when a source/destination pair does not
// name exactly one container endpoint.
var ErrAmbiguousEndpoint = errors.New("please provide exactly one container as an endpoint")

// Kind tags an Endpoint as a host path or a path inside a container.
type Kind int

const (
	Local Kind = iota
	Remote
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Remote:
		return "container"
	default:
		return "unknown"
	}
}

// Endpoint represents a parsed source or destination argument.
type Endpoint struct {
	Kind      Kind
	Container string // set for Remote only
	Path      string // host path (Local) or path inside the container (Remote)
}

// IsRemote returns true if the endpoint refers to a path inside a container.
func (e Endpoint) IsRemote() bool {
	return e.Kind == Remote
}

// String returns a human-readable representation.
func (e Endpoint) String() string {
	if !e.IsRemote() {
		return e.Path
	}
	return fmt.Sprintf("%s:%s", e.Container, e.Path)
}

// HostPath returns the host filesystem path for the endpoint. Local endpoints
// are cleaned; Remote endpoints are joined under root, the container's
// resolved root filesystem. Symlinks inside the container are resolved
// relative to root and ".." components cannot climb above it.
func (e Endpoint) HostPath(root string) (string, error) {
	if !e.IsRemote() {
		return filepath.Clean(e.Path), nil
	}
	if root == "" {
		return "", fmt.Errorf("empty root for container %s", e.Container)
	}
	p, err := securejoin.SecureJoin(root, e.Path)
	if err != nil {
		return "", fmt.Errorf("join %s under %s: %w", e.Path, root, err)
	}
	return p, nil
}

// Parse parses a CLI argument into an Endpoint.
//
// Supported formats:
//   - /absolute/path         → local
//   - relative/path          → local
//   - container:/path        → inside container
//   - container:relative     → inside container, relative to its root
//
// Ambiguity rule: an argument with no colon is always local. An argument
// containing ":" is only treated as a container path if the part before the
// first colon is non-empty and contains no path separators (so "/foo:bar" and
// "./web:path" are local).
func Parse(arg string) Endpoint {
	// Absolute paths and paths starting with . are always local.
	if filepath.IsAbs(arg) || strings.HasPrefix(arg, "./") || strings.HasPrefix(arg, "../") {
		return Endpoint{Kind: Local, Path: arg}
	}

	colonIdx := strings.IndexByte(arg, ':')
	if colonIdx < 0 {
		return Endpoint{Kind: Local, Path: arg}
	}

	ref := arg[:colonIdx]
	inner := arg[colonIdx+1:]

	// A separator before the colon means a local path with a colon in it
	// (e.g., "dir/file:with:colons").
	if ref == "" || strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/') {
		return Endpoint{Kind: Local, Path: arg}
	}

	if inner == "" {
		inner = "/"
	}

	return Endpoint{
		Kind:      Remote,
		Container: ref,
		Path:      inner,
	}
}

// Pair is a validated source/destination pair with exactly one Remote side.
type Pair struct {
	Src Endpoint
	Dst Endpoint
}

// ParsePair parses both arguments and rejects the pair unless exactly one of
// them is a container endpoint.
func ParsePair(src, dst string) (Pair, error) {
	p := Pair{Src: Parse(src), Dst: Parse(dst)}
	if p.Src.IsRemote() == p.Dst.IsRemote() {
		return Pair{}, fmt.Errorf("%w (got %q and %q)", ErrAmbiguousEndpoint, src, dst)
	}
	return p, nil
}

// Remote returns the container side of the pair.
func (p Pair) Remote() Endpoint {
	if p.Src.IsRemote() {
		return p.Src
	}
	return p.Dst
}

// ToContainer reports whether the copy writes into the container.
func (p Pair) ToContainer() bool {
	return p.Dst.IsRemote()
}

// Container returns the container reference named by the pair.
func (p Pair) Container() string {
	return p.Remote().Container
}

// HostPaths substitutes root for the container side and returns the host
// paths of source and destination.
func (p Pair) HostPaths(root string) (src, dst string, err error) {
	src, err = p.Src.HostPath(root)
	if err != nil {
		return "", "", fmt.Errorf("source %s: %w", p.Src, err)
	}
	dst, err = p.Dst.HostPath(root)
	if err != nil {
		return "", "", fmt.Errorf("destination %s: %w", p.Dst, err)
	}
	return src, dst, nil
}
