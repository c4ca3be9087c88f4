package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/docker/client"
)

// DockerOpts configures the Docker Engine API client.
type DockerOpts struct {
	// Host is the daemon address (e.g. unix:///var/run/docker.sock).
	// Empty uses DOCKER_HOST or the platform default.
	Host string
	// APIVersion pins the API version. Empty negotiates with the daemon.
	APIVersion string
}

// Docker implements Inspector over the Docker Engine API.
type Docker struct {
	cli *client.Client
}

var _ Inspector = (*Docker)(nil)

// NewDocker creates a Docker inspector. No connection is made until the
// first query.
func NewDocker(opts DockerOpts) (*Docker, error) {
	clientOpts := []client.Opt{client.FromEnv}
	if opts.Host != "" {
		clientOpts = append(clientOpts, client.WithHost(opts.Host))
	}
	if opts.APIVersion != "" {
		clientOpts = append(clientOpts, client.WithVersion(opts.APIVersion))
	} else {
		clientOpts = append(clientOpts, client.WithAPIVersionNegotiation())
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Docker{cli: cli}, nil
}

// Close releases the client's idle connections.
func (d *Docker) Close() error {
	return d.cli.Close()
}

func (d *Docker) DriverName(ctx context.Context) (string, error) {
	info, err := d.cli.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("query docker info: %w", err)
	}
	slog.Debug("docker storage driver", "driver", info.Driver, "root", info.DockerRootDir)
	return info.Driver, nil
}

func (d *Docker) IDOf(ctx context.Context, name string) (string, error) {
	resp, err := d.cli.ContainerInspect(ctx, name)
	if err != nil {
		return "", inspectErr(name, err)
	}
	if resp.ContainerJSONBase == nil || resp.ID == "" {
		return "", fmt.Errorf("inspect %s: daemon returned no container ID", name)
	}
	return resp.ID, nil
}

func (d *Docker) GraphDriverData(ctx context.Context, id string) (Metadata, error) {
	resp, err := d.cli.ContainerInspect(ctx, id)
	if err != nil {
		return Metadata{}, inspectErr(id, err)
	}
	if resp.ContainerJSONBase == nil {
		return Metadata{}, fmt.Errorf("inspect %s: daemon returned no graph driver data", id)
	}
	return MetadataFromData(resp.GraphDriver.Name, resp.GraphDriver.Data), nil
}

func inspectErr(name string, err error) error {
	if client.IsErrNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("inspect %s: %w", name, err)
}
