// Package gotemplate renders pongo2 templates loaded from an fs.FS.
package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-processform/pkg/render/template"
)

const defaultExtension = ".tpl"

// ErrNoTemplates is returned by New when no template filesystem is supplied.
var ErrNoTemplates = errors.New("gotemplate: template filesystem is required")

// Option configures an Engine.
type Option func(*Engine)

// WithFS sets the filesystem templates are read from.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithExtension sets the suffix appended to template names that lack it.
// Defaults to ".tpl".
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// Engine compiles each template once and reuses it. It is safe for
// concurrent use.
type Engine struct {
	files fs.FS
	ext   string
	set   *pongo2.TemplateSet

	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New returns an Engine reading from the filesystem given with WithFS.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		ext:   defaultExtension,
		cache: make(map[string]*pongo2.Template),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.files == nil {
		return nil, ErrNoTemplates
	}
	e.set = pongo2.NewSet("processform", pongo2.NewFSLoader(e.files))
	return e, nil
}

// RenderTemplate executes the named template with data and copies the result
// to every writer in out. data must encode to a JSON object; templates see
// the JSON field names.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	ctx, err := viewContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", name, err)
	}
	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %s: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// viewContext flattens data to the JSON data model so nested structs expose
// their json tags to templates.
func viewContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode view data: %w", err)
	}
	var ctx map[string]any
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, fmt.Errorf("view data must be an object, got %T", data)
	}
	return pongo2.Context(ctx), nil
}
