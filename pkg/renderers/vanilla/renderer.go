package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-processform/pkg/render"
	rendertemplate "github.com/goliatone/go-processform/pkg/render/template"
	gotemplate "github.com/goliatone/go-processform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-processform/pkg/schema"
	"github.com/goliatone/go-processform/pkg/slider"
)

// SliderID is the id of the live region wrapping the slides.
const SliderID = "slider"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
	script           string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain templates/page.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet links an external stylesheet from the page head.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// WithScript loads the runtime script from src. Pages without a script are
// static: only the Go side of the document reacts to events.
func WithScript(src string) Option {
	return func(cfg *config) {
		cfg.script = strings.TrimSpace(src)
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the page head.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// CategoryOption is one entry of the category chooser.
type CategoryOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Slide is the template view of one slide. HTML is emitted verbatim and must
// already be sanitised.
type Slide struct {
	Image   string `json:"image,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// PageData is the input of Render.
type PageData struct {
	Title      string
	Categories []CategoryOption
	Slides     []Slide
}

// CategoriesFrom lists the registry categories in chooser order.
func CategoriesFrom(reg *schema.Registry) []CategoryOption {
	if reg == nil {
		return nil
	}
	categories := reg.Categories()
	out := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryOption{ID: c.ID, Title: c.DisplayTitle()})
	}
	return out
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	stylesheet   string
	script       string
	inlineStyles string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:  renderer,
		stylesheet: cfg.stylesheet,
		script:     cfg.script,
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the page shell: the category chooser, the empty dynamic
// regions and, when there are slides, the slider with its controls.
func (r *Renderer) Render(ctx context.Context, page PageData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	title := page.Title
	if strings.TrimSpace(title) == "" {
		title = "Process details"
	}

	result, err := r.templates.RenderTemplate(PageTemplate, map[string]any{
		"title":               title,
		"stylesheet":          r.stylesheet,
		"script":              r.script,
		"inline_styles":       r.inlineStyles,
		"chooser_label":       "Process",
		"chooser_placeholder": "Select a process",
		"other_value":         schema.OtherCategory,
		"other_label":         "Other",
		"other_prompt":        "Describe the process",
		"select_id":           render.DefaultSelectID,
		"fields_id":           render.DefaultFieldsID,
		"other_id":            render.DefaultOtherID,
		"categories":          page.Categories,
		"slides":              page.Slides,
		"slider_id":           SliderID,
		"slide_class":         slider.ClassSlide,
		"next_id":             slider.DefaultNext,
		"prev_id":             slider.DefaultPrev,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
