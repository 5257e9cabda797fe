package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle to an element node inside a Document. Handles are cheap
// and two handles to the same node are interchangeable.
type Element struct {
	node *html.Node
	doc  *Document
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	if e == nil {
		return nil
	}
	return e.node
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	if e == nil {
		return ""
	}
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return e.Attr("id")
}

// Is reports whether both handles point to the same node.
func (e *Element) Is(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.node == other.node
}

// Attr returns the attribute value, or "" when absent.
func (e *Element) Attr(key string) string {
	if e == nil {
		return ""
	}
	return attr(e.node, key)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(key string) bool {
	if e == nil {
		return false
	}
	return hasAttr(e.node, key)
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, val string) *Element {
	if e != nil {
		setAttr(e.node, key, val)
	}
	return e
}

// SetBoolAttr sets a boolean attribute such as required or selected.
func (e *Element) SetBoolAttr(key string, on bool) *Element {
	if e == nil {
		return e
	}
	if on {
		setAttr(e.node, key, "")
	} else {
		removeAttr(e.node, key)
	}
	return e
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(key string) *Element {
	if e != nil {
		removeAttr(e.node, key)
	}
	return e
}

// Classes returns the class list in attribute order.
func (e *Element) Classes() []string {
	return strings.Fields(e.Attr("class"))
}

// HasClass reports whether the class is present.
func (e *Element) HasClass(class string) bool {
	if e == nil {
		return false
	}
	return hasClass(e.node, class)
}

// AddClass appends the class when missing.
func (e *Element) AddClass(class string) *Element {
	if e == nil || class == "" || e.HasClass(class) {
		return e
	}
	classes := append(e.Classes(), class)
	setAttr(e.node, "class", strings.Join(classes, " "))
	return e
}

// RemoveClass drops every occurrence of the class. The attribute is removed
// entirely once no class is left.
func (e *Element) RemoveClass(class string) *Element {
	if e == nil || !e.HasClass(class) {
		return e
	}
	var kept []string
	for _, c := range e.Classes() {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(e.node, "class")
		return e
	}
	setAttr(e.node, "class", strings.Join(kept, " "))
	return e
}

// ToggleClass adds or removes the class according to on.
func (e *Element) ToggleClass(class string, on bool) *Element {
	if on {
		return e.AddClass(class)
	}
	return e.RemoveClass(class)
}

// Value returns the control value. For select elements this is the value of
// the selected option, falling back to the first option like a browser does.
func (e *Element) Value() string {
	if e == nil {
		return ""
	}
	if e.node.DataAtom != atom.Select {
		return attr(e.node, "value")
	}
	options := e.doc.collect(e.node, func(n *html.Node) bool { return n.DataAtom == atom.Option })
	if len(options) == 0 {
		return ""
	}
	for _, opt := range options {
		if opt.HasAttr("selected") {
			return optionValue(opt)
		}
	}
	return optionValue(options[0])
}

// SetValue updates the control value. For select elements the matching option
// becomes selected and every other option is deselected.
func (e *Element) SetValue(val string) *Element {
	if e == nil {
		return e
	}
	if e.node.DataAtom != atom.Select {
		setAttr(e.node, "value", val)
		return e
	}
	options := e.doc.collect(e.node, func(n *html.Node) bool { return n.DataAtom == atom.Option })
	for _, opt := range options {
		opt.SetBoolAttr("selected", optionValue(opt) == val)
	}
	return e
}

func optionValue(opt *Element) string {
	if opt.HasAttr("value") {
		return opt.Attr("value")
	}
	return strings.TrimSpace(opt.Text())
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(text string) *Element {
	if e == nil {
		return e
	}
	e.Clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return e
}

// AppendChild moves child under e. A child already attached elsewhere is
// detached first.
func (e *Element) AppendChild(child *Element) *Element {
	if e == nil || child == nil {
		return e
	}
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	return e
}

// Append creates and appends children in one call.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		e.AppendChild(c)
	}
	return e
}

// Clear removes every child node and the listeners attached beneath them.
func (e *Element) Clear() *Element {
	if e == nil {
		return e
	}
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		if e.doc != nil {
			e.doc.forget(c)
		}
		c = next
	}
	return e
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Parent returns the parent element, or nil for detached or root elements.
func (e *Element) Parent() *Element {
	if e == nil || e.node.Parent == nil || e.node.Parent.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(e.node.Parent)
}

// Find returns descendants carrying the class, in document order.
func (e *Element) Find(class string) []*Element {
	if e == nil {
		return nil
	}
	return e.doc.collect(e.node, func(n *html.Node) bool {
		return n != e.node && hasClass(n, class)
	})
}

// FindTag returns descendants with the tag, in document order.
func (e *Element) FindTag(tag string) []*Element {
	if e == nil {
		return nil
	}
	tag = strings.ToLower(tag)
	return e.doc.collect(e.node, func(n *html.Node) bool {
		return n != e.node && n.Data == tag
	})
}

// AddEventListener registers h for events of the given type on e.
func (e *Element) AddEventListener(typ string, h Handler) {
	if e == nil || e.doc == nil || h == nil {
		return
	}
	e.doc.listen(e.node, typ, h)
}

// Dispatch runs every listener registered on e for typ, synchronously and in
// registration order.
func (e *Element) Dispatch(typ string) {
	if e == nil || e.doc == nil {
		return
	}
	e.doc.dispatch(e.node, typ, e)
}

// OuterHTML renders the element and its subtree.
func (e *Element) OuterHTML() string {
	if e == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return ""
	}
	return buf.String()
}
