package render

import (
	"io"
	"log/slog"
	"strings"
)

// Default document anchors, matching the ids used by the page templates.
const (
	DefaultSelectID = "process-select"
	DefaultFieldsID = "dynamic-fields"
	DefaultOtherID  = "other-process-field"
)

// AttrLive marks elements a client refreshes from the server after an event.
const AttrLive = "data-live"

// Class names applied to generated markup.
const (
	ClassHidden         = "hidden"
	ClassFieldContainer = "field-container"
	ClassRangeValue     = "range-value"
)

// Option configures a FormRenderer.
type Option func(*config)

type config struct {
	selectID string
	fieldsID string
	otherID  string
	builders *Registry
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{
		selectID: DefaultSelectID,
		fieldsID: DefaultFieldsID,
		otherID:  DefaultOtherID,
	}
}

// WithSelectID overrides the id of the category chooser.
func WithSelectID(id string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cfg.selectID = trimmed
		}
	}
}

// WithFieldsID overrides the id of the dynamic-fields region.
func WithFieldsID(id string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cfg.fieldsID = trimmed
		}
	}
}

// WithOtherID overrides the id of the free-text region shown for the other
// sentinel.
func WithOtherID(id string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cfg.otherID = trimmed
		}
	}
}

// WithBuilders swaps the control builder registry.
func WithBuilders(reg *Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.builders = reg
		}
	}
}

// WithLogger attaches a structured logger. Rendering logs at debug level only.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
