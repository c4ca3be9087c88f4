package ui

import "github.com/bamsammich/dockercp/internal/event"

// quietPresenter consumes events but produces no output.
type quietPresenter struct{}

func (*quietPresenter) Handle(_ event.Event) {}

func (*quietPresenter) Summary() string {
	return ""
}
