package schema

import "strings"

// OtherCategory is the sentinel category value that swaps dynamic fields for a
// free-text description. It is never a registry key.
const OtherCategory = "other"

// RangeDefault is the initial value of every range control.
const RangeDefault = 50

// Kind enumerates the supported input kinds.
type Kind string

const (
	KindNumeric   Kind = "numeric"
	KindSelection Kind = "selection"
	KindRange     Kind = "range"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindNumeric, KindSelection, KindRange:
		return true
	default:
		return false
	}
}

// FieldDescriptor describes one input to render. Min and Max are optional;
// Options is only meaningful for KindSelection.
type FieldDescriptor struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Label   string   `json:"label" yaml:"label" toml:"label"`
	Kind    Kind     `json:"kind" yaml:"kind" toml:"kind"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// Choice is a selection entry: Label is shown, Value is submitted.
type Choice struct {
	Label string
	Value string
}

// Choices expands Options into display/value pairs. The submitted value is the
// lowercase display text.
func (f FieldDescriptor) Choices() []Choice {
	if len(f.Options) == 0 {
		return nil
	}
	out := make([]Choice, 0, len(f.Options))
	for _, opt := range f.Options {
		out = append(out, Choice{Label: opt, Value: strings.ToLower(opt)})
	}
	return out
}

// Placeholder is the blank entry shown first in a selection control.
func (f FieldDescriptor) Placeholder() string {
	return "Select " + f.Label
}

func (f FieldDescriptor) clone() FieldDescriptor {
	out := f
	if f.Min != nil {
		v := *f.Min
		out.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		out.Max = &v
	}
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// Category groups the ordered fields rendered for one process type.
type Category struct {
	ID     string            `json:"id" yaml:"id" toml:"id"`
	Title  string            `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Fields []FieldDescriptor `json:"fields" yaml:"fields" toml:"fields"`
}

// DisplayTitle falls back to the id when no title is set.
func (c Category) DisplayTitle() string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return c.ID
}

func (c Category) clone() Category {
	out := c
	out.Fields = cloneFields(c.Fields)
	return out
}

func cloneFields(fields []FieldDescriptor) []FieldDescriptor {
	if fields == nil {
		return nil
	}
	out := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		out[i] = f.clone()
	}
	return out
}

// Float returns a pointer to v, for building descriptors in code.
func Float(v float64) *float64 {
	return &v
}
