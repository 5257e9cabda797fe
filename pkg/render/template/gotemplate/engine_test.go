package gotemplate

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-processform/pkg/testsupport"
)

func newTestEngine(t *testing.T, options ...Option) *Engine {
	t.Helper()
	engine, err := New(append([]Option{WithFS(os.DirFS("testdata"))}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newTestEngine(t)

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("greeting", map[string]any{"greeting": "Hello", "name": "Ada"}, w)
	})
	want := "<p>Hello, Ada</p>\n"
	if got != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, got)
	}
	if written != want {
		t.Fatalf("writer did not receive output: %q", written)
	}

	again, err := engine.RenderTemplate("greeting.tpl", map[string]any{"greeting": "Hi", "name": "Bo"})
	if err != nil {
		t.Fatalf("render cached: %v", err)
	}
	if again != "<p>Hi, Bo</p>\n" {
		t.Fatalf("unexpected cached output %q", again)
	}
}

func TestEngine_StructData(t *testing.T) {
	type choice struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}
	type view struct {
		Items []choice `json:"items"`
	}

	engine := newTestEngine(t)
	got, err := engine.RenderTemplate("list", view{Items: []choice{{"Diesel", "diesel"}, {"Hybrid", "hybrid"}}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<ul><li data-value="diesel">Diesel</li><li data-value="hybrid">Hybrid</li></ul>`
	if strings.TrimSpace(got) != want {
		t.Fatalf("unexpected output\nwant: %s\n got: %s", want, got)
	}

	// map values holding structs are flattened too
	got, err = engine.RenderTemplate("list", map[string]any{"items": []choice{{"Petrol", "petrol"}}})
	if err != nil {
		t.Fatalf("render map: %v", err)
	}
	if !strings.Contains(got, `data-value="petrol"`) {
		t.Fatalf("expected struct fields by json name, got %s", got)
	}

	if _, err := engine.RenderTemplate("list", []string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected error for non-object view data")
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.RenderTemplate("absent", nil); err == nil || !strings.Contains(err.Error(), "absent.tpl") {
		t.Fatalf("expected load error naming the template, got %v", err)
	}
}

func TestEngine_CustomExtension(t *testing.T) {
	engine, err := New(
		WithFS(fstest.MapFS{"page.html": {Data: []byte("<b>{{ title }}</b>")}}),
		WithExtension("html"),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := engine.RenderTemplate("page", map[string]any{"title": "Process"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<b>Process</b>" {
		t.Fatalf("unexpected output %q", got)
	}
}
