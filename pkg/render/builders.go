package render

import (
	"math"
	"strconv"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/schema"
)

// ControlID returns the id given to the control generated for a field, so the
// label can point at it and events can target it.
func ControlID(name string) string {
	return "field-" + name
}

// ReadoutID returns the id of the readout shown next to a range control.
func ReadoutID(name string) string {
	return ControlID(name) + "-value"
}

// RangeValue normalises a submitted slider value the way a browser does.
// Values that are not finite numbers fall back to RangeDefault; the rest are
// rounded to a whole step and clamped to the field bounds.
func RangeValue(field schema.FieldDescriptor, raw string) string {
	lo, hi := 0.0, 100.0
	if field.Min != nil {
		lo = *field.Min
	}
	if field.Max != nil {
		hi = *field.Max
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		v = schema.RangeDefault
	}
	v = lo + math.Round(v-lo)
	v = math.Max(lo, math.Min(hi, v))
	return formatBound(v)
}

// RangeReadout formats the text shown next to a range control.
func RangeReadout(value string) string {
	return value + "%"
}

func buildNumeric(doc *dom.Document, field schema.FieldDescriptor) []*dom.Element {
	input := doc.CreateElement("input").
		SetAttr("type", "number").
		SetAttr("id", ControlID(field.Name)).
		SetAttr("name", field.Name).
		SetBoolAttr("required", true)
	applyBounds(input, field)
	return []*dom.Element{input}
}

func buildSelection(doc *dom.Document, field schema.FieldDescriptor) []*dom.Element {
	sel := doc.CreateElement("select").
		SetAttr("id", ControlID(field.Name)).
		SetAttr("name", field.Name).
		SetBoolAttr("required", true)

	placeholder := doc.CreateElement("option").SetAttr("value", "").SetText(field.Placeholder())
	sel.AppendChild(placeholder)

	for _, choice := range field.Choices() {
		opt := doc.CreateElement("option").SetAttr("value", choice.Value).SetText(choice.Label)
		sel.AppendChild(opt)
	}
	return []*dom.Element{sel}
}

func buildRange(doc *dom.Document, field schema.FieldDescriptor) []*dom.Element {
	initial := strconv.Itoa(schema.RangeDefault)

	input := doc.CreateElement("input").
		SetAttr("type", "range").
		SetAttr("id", ControlID(field.Name)).
		SetAttr("name", field.Name).
		SetBoolAttr("required", true)
	applyBounds(input, field)
	input.SetValue(initial)

	readout := doc.CreateElement("span").
		SetAttr("id", ReadoutID(field.Name)).
		SetBoolAttr(AttrLive, true).
		AddClass(ClassRangeValue).
		SetText(RangeReadout(initial))

	input.AddEventListener(dom.EventInput, func(ev dom.Event) {
		v := RangeValue(field, ev.Value())
		input.SetValue(v)
		readout.SetText(RangeReadout(v))
	})
	return []*dom.Element{input, readout}
}

func applyBounds(input *dom.Element, field schema.FieldDescriptor) {
	if field.Min != nil {
		input.SetAttr("min", formatBound(*field.Min))
	}
	if field.Max != nil {
		input.SetAttr("max", formatBound(*field.Max))
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
