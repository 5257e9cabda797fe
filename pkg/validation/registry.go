// Package validation lints field registry documents and reports every problem
// with its location, for editors and the validate command.
package validation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-processform/pkg/schema"
)

// SchemaIssue represents a validation error with optional location metadata.
// Path is a JSON pointer for structural problems and a dotted category.field
// location for semantic ones.
type SchemaIssue struct {
	Path     string `json:"path,omitempty"`
	Category string `json:"category,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

func (i SchemaIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// SchemaValidationResult captures validation outcomes.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// ValidateRegistry loads raw as a registry document and reports the problems
// that keep it from loading. A nil src is treated as an unnamed YAML document.
func ValidateRegistry(src schema.Source, raw []byte) SchemaValidationResult {
	if src == nil {
		src = schema.SourceFromFS("registry.yaml")
	}

	doc, err := schema.NewDocument(src, raw)
	if err != nil {
		return invalid(issueFromError(err))
	}
	if _, err := schema.Load(doc); err != nil {
		return invalid(issuesFromError(err)...)
	}
	return SchemaValidationResult{Valid: true}
}

// ValidateRegistryFile reads path and validates it. Only read failures are
// returned as errors.
func ValidateRegistryFile(path string) (SchemaValidationResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SchemaValidationResult{}, fmt.Errorf("validation: read %s: %w", path, err)
	}
	return ValidateRegistry(schema.SourceFromFile(path), raw), nil
}

func invalid(issues ...SchemaIssue) SchemaValidationResult {
	return SchemaValidationResult{Valid: false, Issues: issues}
}

func issuesFromError(err error) []SchemaIssue {
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		var out []SchemaIssue
		for _, leaf := range leafErrors(verr) {
			out = append(out, SchemaIssue{
				Path:    leaf.InstanceLocation,
				Field:   fieldPathFromPointer(leaf.InstanceLocation),
				Message: strings.TrimSpace(leaf.Message),
			})
		}
		return out
	}

	var out []SchemaIssue
	walk(err, func(e error) bool {
		p, ok := e.(*schema.Problem)
		if !ok {
			return true
		}
		out = append(out, SchemaIssue{
			Path:     p.Path(),
			Category: p.Category,
			Field:    p.Field,
			Message:  p.Message,
		})
		return false
	})
	if len(out) == 0 {
		out = append(out, issueFromError(err))
	}
	return out
}

func issueFromError(err error) SchemaIssue {
	if err == nil {
		return SchemaIssue{Message: "unknown error"}
	}
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, "schema: ")
	return SchemaIssue{Message: msg}
}

// walk visits err and everything it wraps until visit returns false for a
// node.
func walk(err error, visit func(error) bool) {
	if err == nil || !visit(err) {
		return
	}
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			walk(inner, visit)
		}
	case interface{ Unwrap() error }:
		walk(e.Unwrap(), visit)
	}
}

func leafErrors(verr *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(verr.Causes) == 0 {
		return []*jsonschema.ValidationError{verr}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range verr.Causes {
		out = append(out, leafErrors(cause)...)
	}
	return out
}

// fieldPathFromPointer turns /categories/0/fields/2/kind into
// categories[0].fields[2].kind.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(trimmed, "/") {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if isNumeric(segment) {
			b.WriteString("[" + segment + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
	}
	return b.String()
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
