package ui_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/dockercp/internal/ui"
)

// cliHandlers mirrors the CLI's setup: text on stderr at level, JSON log
// file at debug.
func cliHandlers(level slog.Level) (*ui.MultiHandler, *bytes.Buffer, *bytes.Buffer) {
	var stderr, logFile bytes.Buffer
	h := ui.NewMultiHandler(
		slog.NewTextHandler(&stderr, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(&logFile, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	return h, &stderr, &logFile
}

func TestMultiHandler_StderrAndLogFile(t *testing.T) {
	t.Parallel()

	h, stderr, logFile := cliHandlers(slog.LevelWarn)
	logger := slog.New(h)
	logger.Debug("resolved container storage", "driver", "overlay2")
	logger.Warn("config ignored", "path", "/etc/x")

	assert.NotContains(t, stderr.String(), "resolved container storage")
	assert.Contains(t, stderr.String(), "path=/etc/x")

	lines := strings.Split(strings.TrimSpace(logFile.String()), "\n")
	require.Len(t, lines, 2)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "DEBUG", first["level"])
	assert.Equal(t, "overlay2", first["driver"])
}

func TestMultiHandler_Enabled(t *testing.T) {
	t.Parallel()

	m := ui.NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, true},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Enabled(context.Background(), tt.level), tt.level.String())
	}
	assert.False(t, ui.NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_AttrsAndGroups(t *testing.T) {
	t.Parallel()

	h, stderr, logFile := cliHandlers(slog.LevelInfo)
	logger := slog.New(h).With("container", "web").WithGroup("copy")
	logger.Info("done", "bytes", 20)

	assert.Contains(t, stderr.String(), "container=web")
	assert.Contains(t, stderr.String(), "copy.bytes=20")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logFile.Bytes()), &rec))
	assert.Equal(t, "web", rec["container"])
	group, ok := rec["copy"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 20, group["bytes"])
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return assert.AnError }

func TestMultiHandler_HandleJoinsErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ok := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	bad := failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)}

	m := ui.NewMultiHandler(bad, ok)
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "resolved", 0)
	err := m.Handle(context.Background(), rec)

	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, buf.String(), "resolved", "later handlers still run")
}
