package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/dockercp/internal/event"
)

// plainPresenter prints one line per notable event.
type plainPresenter struct {
	w       io.Writer
	width   int
	verbose bool

	last    event.Event // last CopyCompleted or CopyFailed
	failed  bool
	checked bool
}

func (p *plainPresenter) Handle(ev event.Event) {
	switch ev.Type {
	case event.Resolved:
		if p.verbose {
			fmt.Fprintf(p.w, "%s -> %s\n", ev.Container, ev.Root)
		}
	case event.CopyStarted:
		if p.verbose {
			fmt.Fprintf(p.w, "copy %s -> %s (%s)\n", p.path(ev.Src), p.path(ev.Dst), FormatBytes(ev.Size))
		}
	case event.CopyCompleted:
		p.last = ev
		fmt.Fprintf(p.w, "%s  %s  %s\n",
			p.path(ev.Dst),
			FormatBytes(ev.Size),
			FormatRate(Throughput(ev.Size, ev.Elapsed)),
		)
	case event.CopyFailed:
		p.last = ev
		p.failed = true
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s  %s\n", p.path(ev.Dst), errMsg)
	case event.VerifyStarted:
		fmt.Fprintln(p.w, "verifying...")
	case event.VerifyOK:
		p.checked = true
	case event.VerifyFailed:
		p.failed = true
		fmt.Fprintf(p.w, "MISMATCH: %s\n", p.path(ev.Dst))
	}
}

// path fits a path into the line, leaving room for size and rate columns.
func (p *plainPresenter) path(s string) string {
	if p.width <= 0 {
		return s
	}
	return truncPath(s, max(p.width-30, 20))
}

// Summary format: done ✓  size 1.2 MiB  avg 641 MB/s  time 12ms  method copy_file_range  verified
func (p *plainPresenter) Summary() string {
	if p.last.Type == 0 {
		return ""
	}

	icon := "✓"
	if p.failed {
		icon = "✗"
	}

	s := fmt.Sprintf("done %s  size %s  avg %s  time %s",
		icon,
		FormatBytes(p.last.Size),
		FormatRate(Throughput(p.last.Size, p.last.Elapsed)),
		FormatDuration(p.last.Elapsed),
	)
	if p.verbose && p.last.Method != "" {
		s += "  method " + p.last.Method
	}
	if p.checked {
		s += "  verified"
	}
	return s
}
