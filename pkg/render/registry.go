package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/schema"
)

// Builder turns one descriptor into the elements placed after its label. The
// first element is the control itself; later elements are companions such as
// the range readout.
type Builder interface {
	Kind() schema.Kind
	Build(doc *dom.Document, field schema.FieldDescriptor) []*dom.Element
}

// BuilderFunc adapts a function into a Builder via NewBuilder.
type BuilderFunc func(doc *dom.Document, field schema.FieldDescriptor) []*dom.Element

type funcBuilder struct {
	kind schema.Kind
	fn   BuilderFunc
}

func (b funcBuilder) Kind() schema.Kind { return b.kind }

func (b funcBuilder) Build(doc *dom.Document, field schema.FieldDescriptor) []*dom.Element {
	return b.fn(doc, field)
}

// NewBuilder wraps fn as the builder for kind.
func NewBuilder(kind schema.Kind, fn BuilderFunc) Builder {
	return funcBuilder{kind: kind, fn: fn}
}

// Registry stores control builders by kind, providing discovery and
// duplication safeguards. It is shared by every renderer built from it and is
// safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[schema.Kind]Builder
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[schema.Kind]Builder),
	}
}

// NewDefaultRegistry returns a registry holding the numeric, selection and
// range builders.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(NewBuilder(schema.KindNumeric, buildNumeric))
	reg.MustRegister(NewBuilder(schema.KindSelection, buildSelection))
	reg.MustRegister(NewBuilder(schema.KindRange, buildRange))
	return reg
}

// Register adds a builder by its Kind(). Duplicate kinds return an error.
func (r *Registry) Register(builder Builder) error {
	if builder == nil {
		return fmt.Errorf("render: builder is required")
	}
	kind := builder.Kind()
	if kind == "" {
		return fmt.Errorf("render: builder kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[kind]; exists {
		return fmt.Errorf("render: builder %q already registered", kind)
	}

	r.builders[kind] = builder
	return nil
}

// Replace installs builder, overriding any builder registered for its kind.
func (r *Registry) Replace(builder Builder) {
	if builder == nil || builder.Kind() == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[builder.Kind()] = builder
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(builder Builder) {
	if err := r.Register(builder); err != nil {
		panic(err)
	}
}

// Get retrieves a builder by kind.
func (r *Registry) Get(kind schema.Kind) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	builder, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoBuilder, kind)
	}
	return builder, nil
}

// List returns the registered kinds, sorted.
func (r *Registry) List() []schema.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]schema.Kind, 0, len(r.builders))
	for kind := range r.builders {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Has reports whether a builder is registered for kind.
func (r *Registry) Has(kind schema.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.builders[kind]
	return ok
}
