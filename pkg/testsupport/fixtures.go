package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/schema"
)

// LoadRegistry reads a schema fixture from disk. Testing helpers fail the test
// on error to keep contract tests concise.
func LoadRegistry(t *testing.T, path string) *schema.Registry {
	t.Helper()

	reg, err := LoadRegistryFromPath(path)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

// LoadRegistryFromPath returns a registry without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadRegistryFromPath(path string) (*schema.Registry, error) {
	if path == "" {
		return nil, errors.New("testsupport: registry path is required")
	}
	reg, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: load registry: %w", err)
	}
	return reg, nil
}

// MustParseDocument parses markup into a dom.Document.
func MustParseDocument(t *testing.T, markup string) *dom.Document {
	t.Helper()

	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// MustReadFile reads a fixture file and returns its raw bytes.
func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// IDs returns the id attribute of each element, in order.
func IDs(elements []*dom.Element) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		out = append(out, el.ID())
	}
	return out
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
