package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/render"
	"github.com/goliatone/go-processform/pkg/slider"
)

// LiveAttr marks the regions a client refreshes after an event.
const LiveAttr = render.AttrLive

var (
	// ErrUnknownTarget reports an event aimed at an id absent from the page.
	ErrUnknownTarget = errors.New("orchestrator: unknown event target")
	// ErrUnsupportedEvent reports an event type the page does not handle.
	ErrUnsupportedEvent = errors.New("orchestrator: unsupported event type")
)

// Event is a user interaction replayed against a page.
type Event struct {
	Target string `json:"target"`
	Type   string `json:"type"`
	Value  string `json:"value,omitempty"`
}

// Page is a bound document. It is not safe for concurrent use.
type Page struct {
	doc    *dom.Document
	form   *render.FormRenderer
	slides *slider.Controller
}

// Document returns the underlying document.
func (p *Page) Document() *dom.Document { return p.doc }

// Form returns the form renderer bound to the category chooser.
func (p *Page) Form() *render.FormRenderer { return p.form }

// Slides returns the slide controller, or nil when the page has no slides.
func (p *Page) Slides() *slider.Controller { return p.slides }

// HTML renders the current state of the page.
func (p *Page) HTML() (string, error) {
	return p.doc.HTML()
}

// LiveRegions returns the outer HTML of every live region keyed by id.
func (p *Page) LiveRegions() map[string]string {
	out := make(map[string]string)
	for _, el := range p.doc.GetElementsByAttr(LiveAttr) {
		if id := el.ID(); id != "" {
			out[id] = el.OuterHTML()
		}
	}
	return out
}

// Apply replays ev against the page and returns the live regions whose
// structure changed. Change and input events first store ev.Value on the
// target. Control state the client already holds, such as an input value or a
// selected option, does not count as a change, and a region nested inside
// another changed region is only returned through its ancestor.
func (p *Page) Apply(ev Event) (map[string]string, error) {
	target := p.doc.GetElementByID(ev.Target)
	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, ev.Target)
	}

	before := p.signatures()
	switch ev.Type {
	case dom.EventChange, dom.EventInput:
		target.SetValue(ev.Value)
	case dom.EventClick:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, ev.Type)
	}

	target.Dispatch(ev.Type)

	changed := make(map[string]*dom.Element)
	for _, el := range p.doc.GetElementsByAttr(LiveAttr) {
		id := el.ID()
		if id == "" {
			continue
		}
		if sig, ok := before[id]; !ok || sig != signature(el.Node()) {
			changed[id] = el
		}
	}

	out := make(map[string]string, len(changed))
	for id, el := range changed {
		if !insideAny(el, changed) {
			out[id] = el.OuterHTML()
		}
	}
	return out, nil
}

func (p *Page) signatures() map[string]string {
	out := make(map[string]string)
	for _, el := range p.doc.GetElementsByAttr(LiveAttr) {
		if id := el.ID(); id != "" {
			out[id] = signature(el.Node())
		}
	}
	return out
}

func insideAny(el *dom.Element, regions map[string]*dom.Element) bool {
	for up := el.Parent(); up != nil; up = up.Parent() {
		if r, ok := regions[up.ID()]; ok && r.Is(up) {
			return true
		}
	}
	return false
}

// signature serialises a region without control state and without the
// content of nested live regions.
func signature(root *html.Node) string {
	var b strings.Builder
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
		default:
			return
		}
		b.WriteString("<" + n.Data)
		for _, a := range n.Attr {
			if controlState(n.Data, a.Key) {
				continue
			}
			b.WriteString(" " + a.Key + "=" + a.Val)
		}
		b.WriteString(">")
		if n != root && hasLiveAttr(n) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		b.WriteString("</" + n.Data + ">")
	}
	visit(root)
	return b.String()
}

func controlState(tag, key string) bool {
	switch key {
	case "checked":
		return true
	case "value":
		return tag == "input" || tag == "textarea"
	case "selected":
		return tag == "option"
	}
	return false
}

func hasLiveAttr(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == LiveAttr {
			return true
		}
	}
	return false
}
