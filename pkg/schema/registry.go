package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSchema wraps every authoring mistake reported by NewRegistry.
	ErrInvalidSchema = errors.New("schema: invalid field schema")
	// ErrEmptyRegistry is returned when no category is supplied.
	ErrEmptyRegistry = errors.New("schema: registry has no categories")
)

// Registry maps category identifiers to their ordered field descriptors. It is
// immutable once built and safe for concurrent readers.
type Registry struct {
	order      []string
	categories map[string]Category
}

// NewRegistry validates the categories and builds a registry preserving their
// order. Every problem found is reported, joined under ErrInvalidSchema.
func NewRegistry(categories ...Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyRegistry
	}
	if err := Validate(categories); err != nil {
		return nil, err
	}

	reg := &Registry{
		order:      make([]string, 0, len(categories)),
		categories: make(map[string]Category, len(categories)),
	}
	for _, c := range categories {
		reg.order = append(reg.order, c.ID)
		reg.categories[c.ID] = c.clone()
	}
	return reg, nil
}

// MustRegistry panics when the categories are invalid. Useful for init-time
// wiring of schemas defined in code.
func MustRegistry(categories ...Category) *Registry {
	reg, err := NewRegistry(categories...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup returns the ordered descriptors for id. The boolean is false for the
// empty value, the OtherCategory sentinel and unknown identifiers.
func (r *Registry) Lookup(id string) ([]FieldDescriptor, bool) {
	c, ok := r.Category(id)
	if !ok {
		return nil, false
	}
	return c.Fields, true
}

// Category returns a copy of the category registered under id.
func (r *Registry) Category(id string) (Category, bool) {
	if r == nil || id == "" || id == OtherCategory {
		return Category{}, false
	}
	c, ok := r.categories[id]
	if !ok {
		return Category{}, false
	}
	return c.clone(), true
}

// Categories returns copies of every category in registration order.
func (r *Registry) Categories() []Category {
	if r == nil {
		return nil
	}
	out := make([]Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.categories[id].clone())
	}
	return out
}

// IDs returns the registered identifiers in order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Has reports whether id is a registered category.
func (r *Registry) Has(id string) bool {
	_, ok := r.Category(id)
	return ok
}

// Problem is one authoring mistake found by Validate. Category and Field are
// empty when the problem cannot be located more precisely.
type Problem struct {
	Category string
	Field    string
	Message  string
}

// Path returns the dotted location of the problem.
func (p *Problem) Path() string {
	switch {
	case p.Field != "":
		return p.Category + "." + p.Field
	default:
		return p.Category
	}
}

func (p *Problem) Error() string {
	if path := p.Path(); path != "" {
		return fmt.Sprintf("%v: %s: %s", ErrInvalidSchema, path, p.Message)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidSchema, p.Message)
}

// Unwrap lets errors.Is match ErrInvalidSchema.
func (p *Problem) Unwrap() error { return ErrInvalidSchema }

// Validate checks categories for authoring mistakes. Rendering assumes a
// validated schema and performs no checks of its own. Every problem is
// reported as a *Problem, joined with errors.Join.
func Validate(categories []Category) error {
	var errs []error
	report := func(category, field, format string, args ...any) {
		errs = append(errs, &Problem{Category: category, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	seenCategory := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		id := c.ID
		switch {
		case strings.TrimSpace(id) == "":
			report("", "", "category %d has an empty id", i)
			continue
		case id == OtherCategory:
			report(id, "", "category id is reserved")
			continue
		}
		if _, dup := seenCategory[id]; dup {
			report(id, "", "duplicate category")
			continue
		}
		seenCategory[id] = struct{}{}

		if len(c.Fields) == 0 {
			report(id, "", "category has no fields")
		}

		seenField := make(map[string]struct{}, len(c.Fields))
		for j, f := range c.Fields {
			if strings.TrimSpace(f.Name) == "" {
				report(id, "", "field %d has an empty name", j)
				continue
			}
			if _, dup := seenField[f.Name]; dup {
				report(id, f.Name, "duplicate field")
				continue
			}
			seenField[f.Name] = struct{}{}

			for _, problem := range fieldProblems(f) {
				report(id, f.Name, "%s", problem)
			}
		}
	}

	return errors.Join(errs...)
}

func fieldProblems(f FieldDescriptor) []string {
	var out []string
	if strings.TrimSpace(f.Label) == "" {
		out = append(out, "label is required")
	}
	if !f.Kind.Valid() {
		return append(out, fmt.Sprintf("unknown kind %q", f.Kind))
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		out = append(out, fmt.Sprintf("min %v exceeds max %v", *f.Min, *f.Max))
	}

	switch f.Kind {
	case KindSelection:
		if len(f.Options) == 0 {
			out = append(out, "selection requires options")
		}
		values := make(map[string]struct{}, len(f.Options))
		for _, opt := range f.Options {
			if strings.TrimSpace(opt) == "" {
				out = append(out, "option text is empty")
				continue
			}
			v := strings.ToLower(opt)
			if _, dup := values[v]; dup {
				out = append(out, fmt.Sprintf("option value %q is ambiguous", v))
			}
			values[v] = struct{}{}
		}
	case KindRange:
		if f.Min == nil || f.Max == nil {
			out = append(out, "range requires min and max")
		} else if *f.Min > RangeDefault || *f.Max < RangeDefault {
			out = append(out, fmt.Sprintf("range [%v, %v] excludes default %d", *f.Min, *f.Max, RangeDefault))
		}
		if len(f.Options) > 0 {
			out = append(out, "options only apply to selection")
		}
	default:
		if len(f.Options) > 0 {
			out = append(out, "options only apply to selection")
		}
	}
	return out
}
