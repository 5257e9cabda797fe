package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Event names dispatched by the components in this module.
const (
	EventChange = "change"
	EventInput  = "input"
	EventClick  = "click"
)

// ErrNilDocument is returned when an operation receives a nil document.
var ErrNilDocument = errors.New("dom: document is nil")

// Event describes a dispatched UI event.
type Event struct {
	Type   string
	Target *Element
}

// Value returns the target's current value at dispatch time.
func (e Event) Value() string {
	if e.Target == nil {
		return ""
	}
	return e.Target.Value()
}

// Handler reacts to a dispatched event.
type Handler func(Event)

// Document owns an HTML node tree and the event listeners attached to its
// elements.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Handler
}

// New returns an empty document with html/head/body scaffolding.
func New() *Document {
	doc, err := Parse(strings.NewReader("<!DOCTYPE html><html><head></head><body></body></html>"))
	if err != nil {
		// the literal above always parses
		panic(err)
	}
	return doc
}

// Parse builds a document from HTML markup.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]Handler),
	}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Root returns the underlying document node.
func (d *Document) Root() *html.Node {
	if d == nil {
		return nil
	}
	return d.root
}

// Body returns the body element.
func (d *Document) Body() *Element {
	if d == nil {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// GetElementByID returns the first element carrying the id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if d == nil || id == "" {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// GetElementsByClassName returns every element carrying the class, in
// document order.
func (d *Document) GetElementsByClassName(class string) []*Element {
	if d == nil || class == "" {
		return nil
	}
	return d.collect(d.root, func(n *html.Node) bool {
		return hasClass(n, class)
	})
}

// GetElementsByTagName returns every element with the tag, in document order.
func (d *Document) GetElementsByTagName(tag string) []*Element {
	if d == nil || tag == "" {
		return nil
	}
	tag = strings.ToLower(tag)
	return d.collect(d.root, func(n *html.Node) bool {
		return n.Data == tag
	})
}

// GetElementsByAttr returns every element carrying the attribute, in document
// order.
func (d *Document) GetElementsByAttr(key string) []*Element {
	if d == nil || key == "" {
		return nil
	}
	return d.collect(d.root, func(n *html.Node) bool {
		return hasAttr(n, key)
	})
}

// CreateElement returns a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return d.wrap(n)
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	if d == nil {
		return ErrNilDocument
	}
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// HTML returns the rendered document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{node: n, doc: d}
}

func (d *Document) collect(from *html.Node, match func(*html.Node) bool) []*Element {
	var out []*Element
	walk(from, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, d.wrap(n))
		}
		return true
	})
	return out
}

func (d *Document) listen(n *html.Node, typ string, h Handler) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]Handler)
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], h)
}

func (d *Document) dispatch(n *html.Node, typ string, target *Element) {
	handlers := d.listeners[n][typ]
	if len(handlers) == 0 {
		return
	}
	// handlers may register more listeners while running
	snapshot := append([]Handler(nil), handlers...)
	ev := Event{Type: typ, Target: target}
	for _, h := range snapshot {
		h(ev)
	}
}

// forget drops listeners for a detached subtree.
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		return true
	})
}

// walk visits n and its descendants depth-first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
