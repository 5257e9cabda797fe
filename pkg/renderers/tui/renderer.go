package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-processform/pkg/render"
	"github.com/goliatone/go-processform/pkg/schema"
)

const (
	// ProcessKey holds the chosen category id in collected values.
	ProcessKey = "process"
	// OtherProcessKey holds the free-text description for the other category.
	OtherProcessKey = "other_process"
)

// Renderer collects a category's fields through terminal prompts and
// serializes the answers.
type Renderer struct {
	driver            PromptDriver
	registry          *schema.Registry
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
}

// New constructs a TUI renderer with defaults (survey driver, embedded
// registry, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	if r.registry == nil {
		r.registry = schema.Default()
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for category (asking for it first when empty) and returns
// the serialized answers.
func (r *Renderer) Render(ctx context.Context, category string) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if category == "" {
		var err error
		if category, err = r.chooseCategory(ctx); err != nil {
			return nil, err
		}
	}

	state, err := r.Collect(ctx, category)
	if err != nil {
		return nil, err
	}

	values := state.Values()
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values, state.Keys())
}

// Collect prompts for every field of category in registry order. The other
// category asks for a free-text description instead.
func (r *Renderer) Collect(ctx context.Context, category string) (*State, error) {
	state := NewState()
	state.Set(ProcessKey, category)

	if category == schema.OtherCategory {
		desc, err := r.promptOther(ctx)
		if err != nil {
			return nil, err
		}
		state.Set(OtherProcessKey, desc)
		return state, nil
	}

	fields, ok := r.registry.Lookup(category)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCategory, category)
	}

	for _, field := range fields {
		value, err := r.promptField(ctx, field)
		if err != nil {
			return nil, err
		}
		state.Set(field.Name, value)
	}
	return state, nil
}

func (r *Renderer) chooseCategory(ctx context.Context) (string, error) {
	categories := r.registry.Categories()
	ids := make([]string, 0, len(categories)+1)
	options := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		ids = append(ids, c.ID)
		options = append(options, c.DisplayTitle())
	}
	ids = append(ids, schema.OtherCategory)
	options = append(options, "Other")

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      "Process",
			Options:      options,
			DefaultIndex: -1,
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(ids) {
			return ids[idx], nil
		}
		_ = r.driver.Info(ctx, "Invalid process selection")
	}
}

func (r *Renderer) promptField(ctx context.Context, field schema.FieldDescriptor) (any, error) {
	switch field.Kind {
	case schema.KindSelection:
		return r.promptSelection(ctx, field)
	case schema.KindRange:
		return r.promptRange(ctx, field)
	default:
		return r.promptNumber(ctx, field, "")
	}
}

func (r *Renderer) promptNumber(ctx context.Context, field schema.FieldDescriptor, defaultVal string) (float64, error) {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: defaultVal,
			Help:    boundsHelp(field),
		})
		if err != nil {
			return 0, err
		}
		v, err := parseBounded(field, input)
		if err != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Name, err))
			continue
		}
		return v, nil
	}
}

func (r *Renderer) promptRange(ctx context.Context, field schema.FieldDescriptor) (float64, error) {
	v, err := r.promptNumber(ctx, field, strconv.Itoa(schema.RangeDefault))
	if err != nil {
		return 0, err
	}
	_ = r.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Label, render.RangeReadout(formatNumber(v))))
	return v, nil
}

func (r *Renderer) promptSelection(ctx context.Context, field schema.FieldDescriptor) (string, error) {
	choices := field.Choices()
	options := make([]string, len(choices))
	for i, c := range choices {
		options[i] = c.Label
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      options,
			DefaultIndex: -1,
			Help:         field.Placeholder(),
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(choices) {
			return choices[idx].Value, nil
		}
		_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", field.Name))
	}
}

func (r *Renderer) promptOther(ctx context.Context) (string, error) {
	for {
		desc, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: "Describe the process",
		})
		if err != nil {
			return "", err
		}
		if desc = strings.TrimSpace(desc); desc != "" {
			return desc, nil
		}
		_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", OtherProcessKey))
	}
}

func parseBounded(field schema.FieldDescriptor, input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errors.New("required")
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", input)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("must be a finite number")
	}
	if field.Min != nil && v < *field.Min {
		return 0, fmt.Errorf("must be at least %s", formatNumber(*field.Min))
	}
	if field.Max != nil && v > *field.Max {
		return 0, fmt.Errorf("must be at most %s", formatNumber(*field.Max))
	}
	return v, nil
}

func boundsHelp(field schema.FieldDescriptor) string {
	switch {
	case field.Min != nil && field.Max != nil:
		return fmt.Sprintf("between %s and %s", formatNumber(*field.Min), formatNumber(*field.Max))
	case field.Min != nil:
		return fmt.Sprintf("at least %s", formatNumber(*field.Min))
	case field.Max != nil:
		return fmt.Sprintf("at most %s", formatNumber(*field.Max))
	}
	return ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Renderer) serialize(values map[string]any, order []string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values, order)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, val := range values {
		flattened.Set(key, stringify(val))
	}
	return flattened.Encode()
}

// prettyPrint writes one key=value line per answer, in prompt order followed
// by any keys a transformer added.
func prettyPrint(values map[string]any, order []string) string {
	seen := make(map[string]bool, len(order))
	keys := make([]string, 0, len(values))
	for _, k := range order {
		if _, ok := values[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extra []string
	for k := range values {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, stringify(values[k]))
	}
	return b.String()
}

func stringify(v any) string {
	if f, ok := v.(float64); ok {
		return formatNumber(f)
	}
	return fmt.Sprint(v)
}
