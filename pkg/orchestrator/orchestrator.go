package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/render"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
	"github.com/goliatone/go-processform/pkg/schema"
	"github.com/goliatone/go-processform/pkg/slider"
)

// PageRenderer produces the page shell markup.
type PageRenderer interface {
	Render(ctx context.Context, page vanilla.PageData) ([]byte, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects the field schema registry. Defaults to schema.Default.
func WithRegistry(registry *schema.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithBuilders injects the control builder registry shared by every page.
func WithBuilders(builders *render.Registry) Option {
	return func(o *Orchestrator) {
		o.builders = builders
	}
}

// WithPageRenderer injects the renderer that produces the page shell.
func WithPageRenderer(renderer PageRenderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithSanitizer overrides the policy applied to slide HTML bodies.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(o *Orchestrator) {
		o.policy = policy
	}
}

// WithLogger sets the logger handed to the form renderer and the slider.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator builds pages from a registry and a list of slides. It applies
// defaults (embedded registry, vanilla renderer, UGC sanitising) so callers
// can start with a single constructor call.
type Orchestrator struct {
	registry      *schema.Registry
	builders      *render.Registry
	renderer      PageRenderer
	policy        *bluemonday.Policy
	logger        *slog.Logger
	initialiseErr error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one page.
type Request struct {
	Title  string
	Slides []Slide
}

// Registry returns the field schema registry pages are built from.
func (o *Orchestrator) Registry() *schema.Registry {
	return o.registry
}

// Generate renders the page shell for req without binding it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	slides, err := o.sanitise(req.Slides)
	if err != nil {
		return nil, err
	}

	output, err := o.renderer.Render(ctx, vanilla.PageData{
		Title:      req.Title,
		Categories: vanilla.CategoriesFrom(o.registry),
		Slides:     slides,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render page: %w", err)
	}
	return output, nil
}

// Build renders the page shell, parses it and binds the form renderer and,
// when the request carries slides, the slide controller.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*Page, error) {
	markup, err := o.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Bind(bytes.NewReader(markup))
}

// Bind parses an already rendered page and attaches the widgets to it.
func (o *Orchestrator) Bind(r io.Reader) (*Page, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	doc, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse page: %w", err)
	}

	form, err := render.NewFormRenderer(doc, o.registry,
		render.WithBuilders(o.builders),
		render.WithLogger(o.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: form renderer: %w", err)
	}
	if err := form.Bind(); err != nil {
		return nil, fmt.Errorf("orchestrator: bind form: %w", err)
	}

	page := &Page{doc: doc, form: form}
	if len(doc.GetElementsByClassName(slider.ClassSlide)) == 0 {
		return page, nil
	}

	ctrl, err := slider.NewController(doc, slider.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: slider: %w", err)
	}
	if err := ctrl.Bind(); err != nil {
		return nil, fmt.Errorf("orchestrator: bind slider: %w", err)
	}
	page.slides = ctrl
	return page, nil
}

func (o *Orchestrator) sanitise(slides []Slide) ([]vanilla.Slide, error) {
	if len(slides) == 0 {
		return nil, nil
	}
	out := make([]vanilla.Slide, 0, len(slides))
	for i, s := range slides {
		view := vanilla.Slide{
			Image:   s.Image,
			Alt:     s.Alt,
			Caption: s.Caption,
			HTML:    o.policy.Sanitize(s.HTML),
		}
		if view.Image == "" && view.Caption == "" && view.HTML == "" {
			return nil, fmt.Errorf("%w: slide %d", ErrEmptySlide, i)
		}
		out = append(out, view)
	}
	return out, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = schema.Default()
	}
	if o.builders == nil {
		o.builders = render.NewDefaultRegistry()
	}
	if o.policy == nil {
		o.policy = bluemonday.UGCPolicy()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.renderer = renderer
	}
}
