// Package processform renders a process category chooser whose selection
// regenerates a set of input fields, plus a wraparound slider. The root package
// re-exports the common entry points; the packages under pkg/ hold the parts.
package processform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
	"github.com/goliatone/go-processform/pkg/schema"
)

// Slide is one slider entry.
type Slide = orchestrator.Slide

// Page is a rendered page with the form and slider bound to it.
type Page = orchestrator.Page

// Event is a user interaction replayed against a Page.
type Event = orchestrator.Event

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders a page for the embedded registry with the given title
// and slides. It is the simplest entry point for callers that just want HTML.
func GenerateHTML(ctx context.Context, title string, slides []Slide, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Title:  title,
		Slides: slides,
	})
}

// BuildPage renders and binds a page so events can be applied to it.
func BuildPage(ctx context.Context, title string, slides []Slide, options ...orchestrator.Option) (*Page, error) {
	return orchestrator.New(options...).Build(ctx, orchestrator.Request{
		Title:  title,
		Slides: slides,
	})
}

// DefaultRegistry returns the embedded process field registry.
func DefaultRegistry() *schema.Registry {
	return schema.Default()
}

// DefaultSlides returns the embedded slide deck.
func DefaultSlides() []Slide {
	return orchestrator.DefaultSlides()
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and runtime script so Go applications can
// serve them next to rendered pages.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(processform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
