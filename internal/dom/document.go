// Package dom is a small server-side document model on top of golang.org/x/net/html.
//
// It offers the handful of browser operations the status page needs: selector
// lookup, class helpers, closest-ancestor and sibling navigation, the hidden
// attribute, fragment swaps and click listeners with bubbling. A Document is not
// safe for concurrent use; callers serialize access (see internal/host).
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeIDAttr carries the stable identity handed to browsers for event routing.
const NodeIDAttr = "data-node-id"

// Listener handles an event dispatched to an element.
type Listener func(Event) error

// LoadHandler is notified with each content node attached to a document.
type LoadHandler func(content *Element) error

// Event describes a dispatched event. Target is the element the event was
// dispatched on; CurrentTarget is the element whose listener is running.
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element
}

// Document is a parsed HTML document plus the listeners attached to its elements.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Listener
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is Parse for an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]Listener),
	}
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.wrap(c)
		}
	}
	return nil
}

// Body returns the <body> element, or nil for a document without one.
func (d *Document) Body() *Element {
	return d.QuerySelector("body")
}

// QuerySelector returns the first element in document order matching sel, or nil.
func (d *Document) QuerySelector(sel string) *Element {
	s, err := compile(sel)
	if err != nil {
		return nil
	}
	if n := s.MatchFirst(d.root); n != nil {
		return d.wrap(n)
	}
	return nil
}

// QuerySelectorAll returns every element in document order matching sel.
func (d *Document) QuerySelectorAll(sel string) []*Element {
	s, err := compile(sel)
	if err != nil {
		return nil
	}
	return d.wrapAll(s.MatchAll(d.root))
}

// GetElementByID returns the first element whose id is exactly id. Unlike
// QuerySelector it needs no escaping, so any status key can be looked up.
func (d *Document) GetElementByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode {
			return
		}
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				found = n
				return
			}
		}
	})
	return d.wrap(found)
}

// ElementByNodeID finds the element previously stamped by Element.NodeID.
func (d *Document) ElementByNodeID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.QuerySelector(fmt.Sprintf("[%s=%q]", NodeIDAttr, id))
}

// Listening returns the elements that currently have at least one listener for
// eventType, in document order.
func (d *Document) Listening(eventType string) []*Element {
	var out []*Element
	walk(d.root, func(n *html.Node) {
		if len(d.listeners[n][eventType]) > 0 {
			out = append(out, d.wrap(n))
		}
	})
	return out
}

// Render serializes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" on failure.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// ParseFragment parses markup in the context of parent without attaching it.
// The returned nodes are detached and owned by d.
func (d *Document) ParseFragment(markup string, parent *Element) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	if parent != nil {
		context = parent.node
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	return nodes, nil
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{node: n, doc: d}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) addListener(n *html.Node, eventType string, l Listener) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[n] = byType
	}
	byType[eventType] = append(byType[eventType], l)
}

// forget drops listeners for a detached subtree.
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) {
		delete(d.listeners, c)
	})
}

// dispatch runs listeners on the target and then on each ancestor. A failing
// listener does not stop the remaining ones; all errors are joined.
func (d *Document) dispatch(target *html.Node, eventType string) error {
	var errs []error
	for n := target; n != nil; n = n.Parent {
		ls := d.listeners[n][eventType]
		if len(ls) == 0 {
			continue
		}
		// Listeners added while dispatching run on the next event only.
		ls = append([]Listener(nil), ls...)
		ev := Event{Type: eventType, Target: d.wrap(target), CurrentTarget: d.wrap(n)}
		for _, l := range ls {
			if err := l(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func newNodeID() string {
	return uuid.NewString()
}
