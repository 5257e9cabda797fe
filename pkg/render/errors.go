package render

import "errors"

var (
	// ErrMissingElement reports that a document lacks one of the anchors the
	// form renderer mutates.
	ErrMissingElement = errors.New("render: document element not found")
	// ErrNoBuilder is returned when a descriptor kind has no registered
	// control builder.
	ErrNoBuilder = errors.New("render: no control builder for kind")
)
