package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bamsammich/dockercp/internal/event"
)

func TestPlainPresenterCopyCompleted(t *testing.T) {
	var out bytes.Buffer
	p := &plainPresenter{w: &out}

	p.Handle(event.Event{Type: event.Resolved, Container: "web", Root: "/merged"})
	p.Handle(event.Event{Type: event.CopyStarted, Src: "/merged/etc/hosts", Dst: "/tmp/hosts"})
	p.Handle(event.Event{
		Type:    event.CopyCompleted,
		Src:     "/merged/etc/hosts",
		Dst:     "/tmp/hosts",
		Size:    2048,
		Elapsed: time.Second,
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1, "resolution and start lines are verbose-only")
	assert.Contains(t, lines[0], "/tmp/hosts")
	assert.Contains(t, lines[0], "2.0 KiB")
	assert.Contains(t, lines[0], "2.00 KB/s")

	summary := p.Summary()
	assert.Contains(t, summary, "done ✓")
	assert.Contains(t, summary, "size 2.0 KiB")
	assert.NotContains(t, summary, "verified")
}

func TestPlainPresenterVerbose(t *testing.T) {
	var out bytes.Buffer
	p := &plainPresenter{w: &out, verbose: true}

	p.Handle(event.Event{Type: event.Resolved, Container: "web", Root: "/merged"})
	p.Handle(event.Event{Type: event.CopyStarted, Src: "/merged/etc/hosts", Dst: "/tmp/hosts", Size: 2048})
	p.Handle(event.Event{Type: event.CopyCompleted, Dst: "/tmp/hosts", Method: "read_write"})

	assert.Contains(t, out.String(), "web -> /merged")
	assert.Contains(t, out.String(), "copy /merged/etc/hosts -> /tmp/hosts ("+FormatBytes(2048)+")")
	assert.Contains(t, p.Summary(), "method read_write")
}

func TestPlainPresenterCopyFailed(t *testing.T) {
	var out bytes.Buffer
	p := &plainPresenter{w: &out}

	p.Handle(event.Event{Type: event.CopyFailed, Dst: "/tmp/hosts", Error: assert.AnError})

	assert.Contains(t, out.String(), "/tmp/hosts")
	assert.Contains(t, out.String(), assert.AnError.Error())
	assert.Contains(t, p.Summary(), "done ✗")
}

func TestPlainPresenterVerify(t *testing.T) {
	var out bytes.Buffer
	p := &plainPresenter{w: &out}

	p.Handle(event.Event{Type: event.CopyCompleted, Dst: "/tmp/hosts", Size: 10, Elapsed: time.Millisecond})
	p.Handle(event.Event{Type: event.VerifyStarted})
	p.Handle(event.Event{Type: event.VerifyOK, Dst: "/tmp/hosts"})

	assert.Contains(t, out.String(), "verifying...")
	assert.Contains(t, p.Summary(), "verified")
}

func TestPlainPresenterVerifyFailed(t *testing.T) {
	var out bytes.Buffer
	p := &plainPresenter{w: &out}

	p.Handle(event.Event{Type: event.CopyCompleted, Dst: "/tmp/hosts"})
	p.Handle(event.Event{Type: event.VerifyFailed, Dst: "/tmp/hosts"})

	assert.Contains(t, out.String(), "MISMATCH: /tmp/hosts")
	assert.Contains(t, p.Summary(), "done ✗")
}

func TestPlainPresenterTruncatesToWidth(t *testing.T) {
	var out bytes.Buffer
	p := &plainPresenter{w: &out, width: 50}

	long := "/var/lib/docker/overlay2/" + strings.Repeat("a", 64) + "/merged/etc/hosts"
	p.Handle(event.Event{Type: event.CopyCompleted, Dst: long})

	assert.Contains(t, out.String(), "...")
	assert.NotContains(t, out.String(), "/var/lib/docker")
}

func TestPlainPresenterNoSummaryBeforeCopy(t *testing.T) {
	p := &plainPresenter{w: &bytes.Buffer{}}
	assert.Empty(t, p.Summary())
}

func TestNewPresenter(t *testing.T) {
	var out bytes.Buffer

	q := NewPresenter(Config{Writer: &out, Quiet: true})
	q.Handle(event.Event{Type: event.CopyCompleted, Dst: "/tmp/hosts"})
	assert.Empty(t, out.String())
	assert.Empty(t, q.Summary())

	p := NewPresenter(Config{Writer: &out})
	p.Handle(event.Event{Type: event.CopyCompleted, Dst: "/tmp/hosts"})
	assert.Contains(t, out.String(), "/tmp/hosts")
}
