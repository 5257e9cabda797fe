package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const (
	defaultDocument = "data/process_fields.yaml"
	documentSchema  = "data/registry.schema.json"
)

//go:embed data/*
var embedded embed.FS

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry

	validatorOnce sync.Once
	validator     *jsonschema.Schema
	validatorErr  error
)

type documentFile struct {
	Categories []Category `json:"categories"`
}

// Default returns the built-in process registry. The embedded data is covered
// by tests, so a decode failure here is a build defect and panics.
func Default() *Registry {
	defaultOnce.Do(func() {
		data, err := embedded.ReadFile(defaultDocument)
		if err != nil {
			panic(err)
		}
		reg, err := Load(MustNewDocument(fsSource{name: defaultDocument, embedded: true}, data))
		if err != nil {
			panic(err)
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// EmbeddedFS exposes the bundled registry data and its JSON Schema.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return sub
}

// LoadFile reads and validates a registry document from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	doc, err := NewDocument(SourceFromFile(path), data)
	if err != nil {
		return nil, err
	}
	return Load(doc)
}

// LoadFS reads and validates a registry document from fsys.
func LoadFS(fsys fs.FS, name string) (*Registry, error) {
	if fsys == nil {
		return nil, errors.New("schema: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", name, err)
	}
	doc, err := NewDocument(SourceFromFS(name), data)
	if err != nil {
		return nil, err
	}
	return Load(doc)
}

// Load decodes the document, checks it against the registry JSON Schema and
// then runs the semantic checks performed by NewRegistry.
func Load(doc Document) (*Registry, error) {
	generic, err := decode(doc)
	if err != nil {
		return nil, err
	}

	// normalise YAML/TOML scalars to the JSON data model before validation
	normalised, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("schema: normalise %s: %w", doc.Location(), err)
	}

	if err := validateDocument(normalised); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, doc.Location(), err)
	}

	var file documentFile
	if err := json.Unmarshal(normalised, &file); err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
	}

	reg, err := NewRegistry(file.Categories...)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", doc.Location(), err)
	}
	return reg, nil
}

func decode(doc Document) (any, error) {
	raw := doc.Raw()
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("schema: file %s is empty", doc.Location())
	}

	var out any
	switch doc.Format() {
	case FormatTOML:
		var m map[string]any
		if err := toml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("schema: parse %s: %w", doc.Location(), err)
		}
		out = m
	default:
		// YAML is a superset of JSON, one decoder serves both
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("schema: parse %s: %w", doc.Location(), err)
		}
	}
	return out, nil
}

func validateDocument(normalised []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(normalised, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

func compiledSchema() (*jsonschema.Schema, error) {
	validatorOnce.Do(func() {
		raw, err := embedded.ReadFile(documentSchema)
		if err != nil {
			validatorErr = fmt.Errorf("schema: read registry schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("registry.schema.json", bytes.NewReader(raw)); err != nil {
			validatorErr = fmt.Errorf("schema: load registry schema: %w", err)
			return
		}
		validator, validatorErr = compiler.Compile("registry.schema.json")
		if validatorErr != nil {
			validatorErr = fmt.Errorf("schema: compile registry schema: %w", validatorErr)
		}
	})
	return validator, validatorErr
}
