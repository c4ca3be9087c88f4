//go:build integration

package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"

	"github.com/bamsammich/dockercp/internal/container"
	"github.com/bamsammich/dockercp/internal/storage"
)

// startAlpine starts a long-running container and returns its ID along with
// a resolver against the local daemon.
func startAlpine(t *testing.T) (testcontainers.Container, *storage.Resolver) {
	t.Helper()

	if os.Geteuid() != 0 {
		t.Skip("reading container storage requires root")
	}

	ctx := context.Background()
	docker, err := container.NewDocker(container.DockerOpts{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = docker.Close() })

	driver, err := docker.DriverName(ctx)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if !storage.Kind(driver).Supported() {
		t.Skipf("storage driver %q not supported", driver)
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "alpine:3.20",
			Cmd:   []string{"sleep", "300"},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	return ctr, storage.NewResolver(docker, "")
}

func execOutput(t *testing.T, ctr testcontainers.Container, cmd ...string) string {
	t.Helper()
	code, r, err := ctr.Exec(context.Background(), cmd, tcexec.Multiplexed())
	require.NoError(t, err)
	require.Equal(t, 0, code)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestIntegration_CopyFromContainer(t *testing.T) {
	ctr, resolver := startAlpine(t)

	dst := filepath.Join(t.TempDir(), "alpine-release")
	result := Run(context.Background(), Config{
		Src:      ctr.GetContainerID() + ":/etc/alpine-release",
		Dst:      dst,
		Verify:   true,
		Resolver: resolver,
	})
	require.NoError(t, result.Err)
	assert.True(t, result.Verified)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	want := execOutput(t, ctr, "cat", "/etc/alpine-release")
	assert.Equal(t, strings.TrimSpace(want), strings.TrimSpace(string(got)))
}

func TestIntegration_CopyIntoContainer(t *testing.T) {
	ctr, resolver := startAlpine(t)

	src := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, os.WriteFile(src, []byte("copied from the host\n"), 0o644))

	result := Run(context.Background(), Config{
		Src:      src,
		Dst:      ctr.GetContainerID() + ":/tmp/motd",
		Resolver: resolver,
	})
	require.NoError(t, result.Err)

	assert.Equal(t, "copied from the host\n", execOutput(t, ctr, "cat", "/tmp/motd"))
}
