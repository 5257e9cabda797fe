package render

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/schema"
)

// FormRenderer regenerates the dynamic-fields region of a document whenever
// the selected category changes. It owns that region and the free-text region
// exclusively; nothing else in the document is touched.
type FormRenderer struct {
	doc      *dom.Document
	registry *schema.Registry
	builders *Registry
	logger   *slog.Logger

	selectID string
	chooser  *dom.Element
	fields   *dom.Element
	other    *dom.Element
}

// NewFormRenderer resolves the document anchors and returns a renderer for
// registry. The registry must already be validated, which NewRegistry and the
// loaders guarantee.
func NewFormRenderer(doc *dom.Document, registry *schema.Registry, options ...Option) (*FormRenderer, error) {
	if doc == nil {
		return nil, dom.ErrNilDocument
	}
	if registry == nil {
		return nil, fmt.Errorf("render: registry is required")
	}

	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.builders == nil {
		cfg.builders = NewDefaultRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}

	r := &FormRenderer{
		doc:      doc,
		registry: registry,
		builders: cfg.builders,
		logger:   cfg.logger,
		selectID: cfg.selectID,
		chooser:  doc.GetElementByID(cfg.selectID),
		fields:   doc.GetElementByID(cfg.fieldsID),
		other:    doc.GetElementByID(cfg.otherID),
	}
	if r.fields == nil {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, cfg.fieldsID)
	}
	if r.other == nil {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, cfg.otherID)
	}

	// every kind the registry uses must be buildable before any event fires
	for _, c := range registry.Categories() {
		for _, f := range c.Fields {
			if !r.builders.Has(f.Kind) {
				return nil, fmt.Errorf("%w %q (%s.%s)", ErrNoBuilder, f.Kind, c.ID, f.Name)
			}
		}
	}
	return r, nil
}

// Bind subscribes the renderer to change events on the category chooser.
func (r *FormRenderer) Bind() error {
	if r.chooser == nil {
		return fmt.Errorf("%w: #%s", ErrMissingElement, r.selectID)
	}
	r.chooser.AddEventListener(dom.EventChange, func(ev dom.Event) {
		r.Render(ev.Value())
	})
	return nil
}

// Render replaces the dynamic fields for the selected category value. The
// other sentinel reveals only the free-text region; empty or unknown values
// leave both regions hidden.
func (r *FormRenderer) Render(category string) {
	r.fields.Clear()
	r.fields.AddClass(ClassHidden)
	r.other.AddClass(ClassHidden)

	if category == schema.OtherCategory {
		r.other.RemoveClass(ClassHidden)
		r.logger.Debug("form: other process selected")
		return
	}

	descriptors, ok := r.registry.Lookup(category)
	if !ok {
		if category != "" {
			r.logger.Debug("form: unknown category", "category", category)
		}
		return
	}

	for _, field := range descriptors {
		r.fields.AppendChild(r.container(field))
	}
	r.fields.RemoveClass(ClassHidden)
	r.logger.Debug("form: rendered category", "category", category, "fields", len(descriptors))
}

func (r *FormRenderer) container(field schema.FieldDescriptor) *dom.Element {
	container := r.doc.CreateElement("div").AddClass(ClassFieldContainer)

	label := r.doc.CreateElement("label").
		SetAttr("for", ControlID(field.Name)).
		SetText(field.Label)
	container.AppendChild(label)

	// kinds were checked in NewFormRenderer
	builder, _ := r.builders.Get(field.Kind)
	container.Append(builder.Build(r.doc, field)...)
	return container
}

// Chooser returns the category chooser element, or nil when absent.
func (r *FormRenderer) Chooser() *dom.Element { return r.chooser }

// Fields returns the dynamic-fields region.
func (r *FormRenderer) Fields() *dom.Element { return r.fields }

// Other returns the free-text region.
func (r *FormRenderer) Other() *dom.Element { return r.other }

// Controls returns the generated field containers in render order.
func (r *FormRenderer) Controls() []*dom.Element {
	return r.fields.Find(ClassFieldContainer)
}
