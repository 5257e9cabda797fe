package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

const tomlRegistry = `
[[categories]]
id = "agriculture"
title = "Agriculture"

  [[categories.fields]]
  name = "land_area"
  label = "Land Area (hectares)"
  kind = "numeric"
  min = 0

  [[categories.fields]]
  name = "irrigated_share"
  label = "Irrigated Share"
  kind = "range"
  min = 0
  max = 100
`

const jsonRegistry = `{
  "categories": [
    {"id": "aviation", "fields": [
      {"name": "aircraft", "label": "Aircraft", "kind": "selection", "options": ["Jet", "Turboprop"]}
    ]}
  ]
}`

func TestLoadFS_Formats(t *testing.T) {
	fsys := fstest.MapFS{
		"registry.toml": {Data: []byte(tomlRegistry)},
		"registry.json": {Data: []byte(jsonRegistry)},
	}

	reg, err := LoadFS(fsys, "registry.toml")
	if err != nil {
		t.Fatalf("load toml: %v", err)
	}
	want := []FieldDescriptor{
		{Name: "land_area", Label: "Land Area (hectares)", Kind: KindNumeric, Min: Float(0)},
		{Name: "irrigated_share", Label: "Irrigated Share", Kind: KindRange, Min: Float(0), Max: Float(100)},
	}
	got, ok := reg.Lookup("agriculture")
	if !ok {
		t.Fatalf("expected agriculture category")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("toml fields mismatch (-want +got):\n%s", diff)
	}

	reg, err = LoadFS(fsys, "registry.json")
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	c, ok := reg.Category("aviation")
	if !ok {
		t.Fatalf("expected aviation category")
	}
	if c.DisplayTitle() != "aviation" {
		t.Fatalf("expected id fallback title, got %q", c.DisplayTitle())
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `categories:
  - id: a
    fields:
      - {name: n, label: N, kind: checkbox}`,
		"selection without options": `categories:
  - id: a
    fields:
      - {name: s, label: S, kind: selection}`,
		"range without max": `categories:
  - id: a
    fields:
      - {name: r, label: R, kind: range, min: 0}`,
		"unexpected key": `categories:
  - id: a
    colour: red
    fields:
      - {name: n, label: N, kind: numeric}`,
		"reserved id": `categories:
  - id: other
    fields:
      - {name: n, label: N, kind: numeric}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			doc := MustNewDocument(SourceFromFS(name+".yaml"), []byte(body))
			if _, err := Load(doc); !errors.Is(err, ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	doc := MustNewDocument(SourceFromFS("broken.toml"), []byte("[[categories]\nid ="))
	_, err := Load(doc)
	if err == nil || !strings.Contains(err.Error(), "schema: parse broken.toml") {
		t.Fatalf("expected parse error, got %v", err)
	}

	blank := MustNewDocument(SourceFromFS("blank.yaml"), []byte("  \n"))
	if _, err := Load(blank); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.json")
	if err := os.WriteFile(path, []byte(jsonRegistry), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if !reg.Has("aviation") {
		t.Fatalf("expected aviation category")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestEmbeddedFS(t *testing.T) {
	reg, err := LoadFS(EmbeddedFS(), "process_fields.yaml")
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if diff := cmp.Diff(Default().IDs(), reg.IDs()); diff != "" {
		t.Fatalf("embedded registry mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"a.toml": FormatTOML,
		"a.JSON": FormatJSON,
		"a.yml":  FormatYAML,
		"a":      FormatYAML,
	}
	for in, want := range cases {
		if got := FormatFor(in); got != want {
			t.Fatalf("FormatFor(%q) = %q, want %q", in, got, want)
		}
	}
}
