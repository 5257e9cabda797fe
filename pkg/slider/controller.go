package slider

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-processform/pkg/dom"
)

// Default document anchors and class names used by the slider.
const (
	ClassSlide  = "slide"
	ClassActive = "active"
	DefaultNext = "next"
	DefaultPrev = "prev"
)

// ErrMissingControl reports that a navigation button is absent from the
// document.
var ErrMissingControl = errors.New("slider: navigation control not found")

// Option configures a Controller.
type Option func(*config)

type config struct {
	slideClass string
	nextID     string
	prevID     string
	logger     *slog.Logger
}

// WithSlideClass overrides the class that marks slide elements.
func WithSlideClass(class string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(class); trimmed != "" {
			cfg.slideClass = trimmed
		}
	}
}

// WithControls overrides the ids of the next and previous buttons.
func WithControls(nextID, prevID string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(nextID); trimmed != "" {
			cfg.nextID = trimmed
		}
		if trimmed := strings.TrimSpace(prevID); trimmed != "" {
			cfg.prevID = trimmed
		}
	}
}

// WithLogger attaches a structured logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Controller owns a State and keeps the active marking of the slide elements
// in step with it.
type Controller struct {
	doc    *dom.Document
	state  *State
	slides []*dom.Element
	nextID string
	prevID string
	logger *slog.Logger
}

// NewController collects the slides present in doc and activates the first
// one. A document without slides is rejected with ErrNoSlides.
func NewController(doc *dom.Document, options ...Option) (*Controller, error) {
	if doc == nil {
		return nil, dom.ErrNilDocument
	}
	cfg := config{
		slideClass: ClassSlide,
		nextID:     DefaultNext,
		prevID:     DefaultPrev,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	slides := doc.GetElementsByClassName(cfg.slideClass)
	state, err := NewState(len(slides))
	if err != nil {
		return nil, err
	}

	c := &Controller{
		doc:    doc,
		state:  state,
		slides: slides,
		nextID: cfg.nextID,
		prevID: cfg.prevID,
		logger: cfg.logger,
	}
	c.sync()
	return c, nil
}

// Bind wires click events on the next and previous buttons.
func (c *Controller) Bind() error {
	next := c.doc.GetElementByID(c.nextID)
	if next == nil {
		return fmt.Errorf("%w: #%s", ErrMissingControl, c.nextID)
	}
	prev := c.doc.GetElementByID(c.prevID)
	if prev == nil {
		return fmt.Errorf("%w: #%s", ErrMissingControl, c.prevID)
	}
	next.AddEventListener(dom.EventClick, func(dom.Event) { c.Next() })
	prev.AddEventListener(dom.EventClick, func(dom.Event) { c.Prev() })
	return nil
}

// Next shows the following slide, wrapping after the last.
func (c *Controller) Next() int {
	c.state.Next()
	c.sync()
	return c.state.Index()
}

// Prev shows the preceding slide, wrapping before the first.
func (c *Controller) Prev() int {
	c.state.Prev()
	c.sync()
	return c.state.Index()
}

// Show jumps to index modulo the slide count.
func (c *Controller) Show(index int) int {
	c.state.Go(index)
	c.sync()
	return c.state.Index()
}

// Index returns the active position.
func (c *Controller) Index() int { return c.state.Index() }

// Count returns the number of slides.
func (c *Controller) Count() int { return c.state.Count() }

// Active returns the active slide element.
func (c *Controller) Active() *dom.Element { return c.slides[c.state.Index()] }

// Slides returns the slide elements in document order.
func (c *Controller) Slides() []*dom.Element {
	return append([]*dom.Element(nil), c.slides...)
}

// sync marks the slide at the current index active and every other slide
// inactive.
func (c *Controller) sync() {
	current := c.state.Index()
	for i, slide := range c.slides {
		slide.RemoveClass(ClassActive)
		if i == current {
			slide.AddClass(ClassActive)
		}
	}
	c.logger.Debug("slider: show", "index", current, "count", len(c.slides))
}
