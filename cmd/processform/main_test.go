package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-processform/pkg/testsupport"
)

// execute runs the root command in an empty working directory so no stray
// config file is picked up.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	cfgFile, logLevel = "", ""
	pageOutput, pageNoSlides, pageInline = "", false, false
	promptFormat, serveAddr = "json", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func absTestdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	return path
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "processform.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestCategoriesUsesConfiguredSchema(t *testing.T) {
	schemaFile := absTestdata(t, "registry.yaml")
	reg := testsupport.LoadRegistry(t, schemaFile)
	cfg := writeConfig(t, fmt.Sprintf("schema_file: %s\n", schemaFile))

	out, err := execute(t, "--config", cfg, "categories")
	if err != nil {
		t.Fatalf("categories: %v\n%s", err, out)
	}
	for _, c := range reg.Categories() {
		if !strings.Contains(out, c.ID+"\t"+c.DisplayTitle()) {
			t.Fatalf("expected %q in output:\n%s", c.ID, out)
		}
	}
	if !strings.Contains(out, "  speed\trange\tSpeed") {
		t.Fatalf("expected speed field in output:\n%s", out)
	}
}

func TestRenderCategoryRevealsFields(t *testing.T) {
	out, err := execute(t, "render", "coal_mining")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := testsupport.MustParseDocument(t, out)
	fields := doc.GetElementByID("dynamic-fields")
	if fields == nil || fields.HasClass("hidden") {
		t.Fatalf("expected visible field region:\n%s", out)
	}
	if got := len(fields.Find("field-container")); got != 3 {
		t.Fatalf("expected 3 field containers, got %d", got)
	}
	if other := doc.GetElementByID("other-process-field"); other == nil || !other.HasClass("hidden") {
		t.Fatalf("expected hidden other region")
	}
}

func TestRenderOtherRevealsTextArea(t *testing.T) {
	out, err := execute(t, "render", "other")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := testsupport.MustParseDocument(t, out)
	if fields := doc.GetElementByID("dynamic-fields"); !fields.HasClass("hidden") || len(fields.Children()) != 0 {
		t.Fatalf("expected empty hidden field region")
	}
	if other := doc.GetElementByID("other-process-field"); other.HasClass("hidden") {
		t.Fatalf("expected visible other region")
	}
}

func TestPageWithoutSlides(t *testing.T) {
	out, err := execute(t, "page", "--no-slides")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	doc := testsupport.MustParseDocument(t, out)
	if doc.GetElementByID("process-select") == nil {
		t.Fatalf("expected chooser in page")
	}
	if doc.GetElementByID("slider") != nil {
		t.Fatalf("expected no slider")
	}
}

func TestPageWritesOutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "page.html")
	if _, err := execute(t, "page", "--output", target, "--inline-styles"); err != nil {
		t.Fatalf("page: %v", err)
	}
	doc := testsupport.MustParseDocument(t, string(testsupport.MustReadFile(t, target)))
	if got := len(doc.GetElementsByClassName("slide")); got != 4 {
		t.Fatalf("expected 4 slides, got %d", got)
	}
	if len(doc.GetElementsByTagName("style")) == 0 {
		t.Fatalf("expected inline styles")
	}
}

func TestValidateReportsProblems(t *testing.T) {
	out, err := execute(t, "validate", absTestdata(t, "registry.yaml"), absTestdata(t, "invalid.yaml"))
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(out, "registry.yaml: ok") {
		t.Fatalf("expected valid file reported ok:\n%s", out)
	}
	if !strings.Contains(out, "a.n: duplicate field") {
		t.Fatalf("expected duplicate field issue:\n%s", out)
	}
}

func TestValidateEmbedded(t *testing.T) {
	out, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "(embedded): ok") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "processform.yaml")
	if _, err := execute(t, "config", "init", target); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(string(testsupport.MustReadFile(t, target)), "session_ttl: 30m0s") {
		t.Fatalf("expected session_ttl in written config")
	}

	out, err := execute(t, "--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "file:         "+target) || !strings.Contains(out, "max_sessions: 1000") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "categories"); err == nil {
		t.Fatalf("expected log level error")
	}
}
