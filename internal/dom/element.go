package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element is a handle on an element node. Handles are cheap and created on
// demand, so compare them with Same rather than ==.
type Element struct {
	node *html.Node
	doc  *Document
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Same reports whether e and other refer to the same node.
func (e *Element) Same(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.node == other.node
}

// TagName returns the lower-case tag name.
func (e *Element) TagName() string {
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// Classes returns the class list in attribute order.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports class membership.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds name unless already present.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), name), " "))
}

// RemoveClass removes every occurrence of name.
func (e *Element) RemoveClass(name string) {
	var kept []string
	for _, c := range e.Classes() {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// ToggleClass flips membership of name and reports whether it is now present.
func (e *Element) ToggleClass(name string) bool {
	if e.HasClass(name) {
		e.RemoveClass(name)
		return false
	}
	e.AddClass(name)
	return true
}

// Hidden reports whether the hidden attribute is present.
func (e *Element) Hidden() bool {
	_, ok := e.Attr("hidden")
	return ok
}

// SetHidden adds or removes the hidden attribute.
func (e *Element) SetHidden(hidden bool) {
	if hidden {
		e.SetAttr("hidden", "")
		return
	}
	e.RemoveAttr("hidden")
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	if p := e.node.Parent; p != nil && p.Type == html.ElementNode {
		return e.doc.wrap(p)
	}
	return nil
}

// NextElementSibling skips text and comment nodes.
func (e *Element) NextElementSibling() *Element {
	for n := e.node.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Matches reports whether e matches sel. Invalid selectors never match.
func (e *Element) Matches(sel string) bool {
	s, err := compile(sel)
	if err != nil {
		return false
	}
	return s.Match(e.node)
}

// Closest returns e or its nearest ancestor matching sel.
func (e *Element) Closest(sel string) *Element {
	s, err := compile(sel)
	if err != nil {
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && s.Match(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// QuerySelector searches the descendants of e.
func (e *Element) QuerySelector(sel string) *Element {
	s, err := compile(sel)
	if err != nil {
		return nil
	}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if n := s.MatchFirst(c); n != nil {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// QuerySelectorAll returns all descendants of e matching sel.
func (e *Element) QuerySelectorAll(sel string) []*Element {
	s, err := compile(sel)
	if err != nil {
		return nil
	}
	var nodes []*html.Node
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, s.MatchAll(c)...)
	}
	return e.doc.wrapAll(nodes)
}

// TextContent concatenates all descendant text, including raw script text.
func (e *Element) TextContent() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.removeChildren()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetInnerHTML parses markup in the context of e and replaces e's children
// with the result. It returns the new top-level elements.
func (e *Element) SetInnerHTML(markup string) ([]*Element, error) {
	nodes, err := e.doc.ParseFragment(markup, e)
	if err != nil {
		return nil, err
	}
	e.removeChildren()
	var inserted []*Element
	for _, n := range nodes {
		e.node.AppendChild(n)
		if n.Type == html.ElementNode {
			inserted = append(inserted, e.doc.wrap(n))
		}
	}
	return inserted, nil
}

// InnerHTML serializes e's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return ""
		}
	}
	return b.String()
}

// OuterHTML serializes e itself.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	if err := html.Render(&b, e.node); err != nil {
		return ""
	}
	return b.String()
}

// AddEventListener registers l for eventType on e. Registering the same
// listener twice runs it twice.
func (e *Element) AddEventListener(eventType string, l Listener) {
	e.doc.addListener(e.node, eventType, l)
}

// Dispatch fires eventType at e, bubbling to its ancestors.
func (e *Element) Dispatch(eventType string) error {
	return e.doc.dispatch(e.node, eventType)
}

// Click is Dispatch("click").
func (e *Element) Click() error {
	return e.Dispatch("click")
}

// NodeID returns e's routing id, stamping a fresh one on first use.
func (e *Element) NodeID() string {
	if id, ok := e.Attr(NodeIDAttr); ok && id != "" {
		return id
	}
	id := newNodeID()
	e.SetAttr(NodeIDAttr, id)
	return id
}

func (e *Element) removeChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		e.doc.forget(c)
		c = next
	}
}
