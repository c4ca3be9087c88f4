package ui

import (
	"io"

	"github.com/bamsammich/dockercp/internal/event"
)

// Presenter consumes engine events and displays progress.
type Presenter interface {
	// Handle is called for every event, in order, on the engine's goroutine.
	Handle(ev event.Event)
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer  io.Writer
	Width   int // terminal width for path truncation; 0 disables truncation
	Quiet   bool
	Verbose bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	return &plainPresenter{
		w:       cfg.Writer,
		width:   cfg.Width,
		verbose: cfg.Verbose,
	}
}
