// Package host plays the part of the browser-side host for a status page: it
// owns the page document, performs htmx-style fragment swaps and notifies load
// handlers about every inserted node, and routes clicks coming back from the
// browser to the listeners registered on the document.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"scantimeline/internal/dom"
	"scantimeline/internal/logging"
	"scantimeline/internal/telemetry"
)

var (
	// ErrTargetNotFound is returned by Swap when the target id does not exist.
	ErrTargetNotFound = errors.New("swap target not found")
	// ErrUnknownNode is returned by Click for an id that is not in the page.
	ErrUnknownNode = errors.New("no element with that node id")
	// ErrNoBody is returned by Load for a document without a body.
	ErrNoBody = errors.New("page has no body")
)

// Bridge describes how click listeners are exposed to the browser. Every
// element with a click listener gets hx-post=ClickEndpoint+<node id>.
type Bridge struct {
	ClickEndpoint string
	Target        string
	Swap          string
}

// Page is one live status page. All methods are safe for concurrent use; they
// serialize on the page, so handlers and listeners never run concurrently.
type Page struct {
	mu       sync.Mutex
	id       string
	doc      *dom.Document
	handlers []dom.LoadHandler
	bridge   Bridge
	created  time.Time
}

// NewPage wraps doc.
func NewPage(doc *dom.Document, bridge Bridge) *Page {
	return &Page{
		id:      uuid.NewString(),
		doc:     doc,
		bridge:  bridge,
		created: time.Now(),
	}
}

// ParsePage parses markup into a new page.
func ParsePage(markup string, bridge Bridge) (*Page, error) {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, err
	}
	return NewPage(doc, bridge), nil
}

// ID is the page's identity, used to find it again from a session.
func (p *Page) ID() string {
	return p.id
}

// Created is when the page was built.
func (p *Page) Created() time.Time {
	return p.created
}

// Document exposes the underlying document. Callers that mutate it must do so
// through View to stay serialized with handlers.
func (p *Page) Document() *dom.Document {
	return p.doc
}

// OnLoad registers h for every subsequent insertion.
func (p *Page) OnLoad(h dom.LoadHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Load announces the whole page: handlers are notified once with <body>.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	body := p.doc.Body()
	if body == nil {
		return ErrNoBody
	}

	_, span := telemetry.StartSpan(ctx, "host.load", trace.WithAttributes(
		attribute.String("page.id", p.id),
	))
	defer span.End()

	err := p.notify(body)
	p.applyBridge()
	recordError(span, err)
	return err
}

// Swap replaces the children of the element with id targetID by markup and
// notifies handlers once per inserted top-level element. It returns the
// target's resulting inner HTML, so the caller can send it to the browser.
// Handler errors do not undo the swap.
func (p *Page) Swap(ctx context.Context, targetID, markup string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, span := telemetry.StartSpan(ctx, "host.swap", trace.WithAttributes(
		attribute.String("page.id", p.id),
		attribute.String("swap.target", targetID),
	))
	defer span.End()

	target := p.doc.GetElementByID(targetID)
	if target == nil {
		err := fmt.Errorf("%w: #%s", ErrTargetNotFound, targetID)
		recordError(span, err)
		return "", err
	}

	inserted, err := target.SetInnerHTML(markup)
	if err != nil {
		recordError(span, err)
		return "", err
	}

	var errs []error
	for _, content := range inserted {
		span.AddEvent("load", trace.WithAttributes(
			attribute.String("content.classes", strings.Join(content.Classes(), " ")),
		))
		if err := p.notify(content); err != nil {
			errs = append(errs, err)
		}
	}
	p.applyBridge()

	err = errors.Join(errs...)
	recordError(span, err)
	return target.InnerHTML(), err
}

// Click dispatches a click on the element stamped with nodeID.
func (p *Page) Click(ctx context.Context, nodeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, span := telemetry.StartSpan(ctx, "host.click", trace.WithAttributes(
		attribute.String("page.id", p.id),
		attribute.String("node.id", nodeID),
	))
	defer span.End()

	el := p.doc.ElementByNodeID(nodeID)
	if el == nil {
		err := fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
		recordError(span, err)
		return err
	}

	err := el.Click()
	if err != nil {
		logging.Error("Click on %s failed: %v", nodeID, err)
	}
	recordError(span, err)
	return err
}

// View runs fn with exclusive access to the document.
func (p *Page) View(fn func(doc *dom.Document) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(p.doc)
}

// Render writes the full page.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Render(w)
}

// OuterHTML renders the element with id, or "" when it does not exist.
func (p *Page) OuterHTML(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el := p.doc.GetElementByID(id); el != nil {
		return el.OuterHTML()
	}
	return ""
}

// notify runs every handler for content. One failing handler does not stop
// the others.
func (p *Page) notify(content *dom.Element) error {
	var errs []error
	for _, h := range p.handlers {
		if err := h(content); err != nil {
			logging.Error("Load handler failed for <%s class=%q>: %v",
				content.TagName(), strings.Join(content.Classes(), " "), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// applyBridge stamps routing attributes on every clickable element.
func (p *Page) applyBridge() {
	if p.bridge.ClickEndpoint == "" {
		return
	}
	for _, el := range p.doc.Listening("click") {
		el.SetAttr("hx-post", p.bridge.ClickEndpoint+el.NodeID())
		if p.bridge.Target != "" {
			el.SetAttr("hx-target", p.bridge.Target)
		}
		if p.bridge.Swap != "" {
			el.SetAttr("hx-swap", p.bridge.Swap)
		}
	}
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
