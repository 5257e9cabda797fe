package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnknownCategory reports a category id absent from the registry.
	ErrUnknownCategory = errors.New("tui: unknown category")
	// ErrNoController is returned when a slideshow is started without slides.
	ErrNoController = errors.New("tui: slide controller is required")
)
