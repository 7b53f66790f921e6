package host

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"scantimeline/internal/dom"
)

const pageMarkup = `<html><body class="page"><div id="slot"></div><button id="go">go</button></body></html>`

var bridge = Bridge{ClickEndpoint: "/ui/click/", Target: "#slot", Swap: "innerHTML"}

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p, err := ParsePage(pageMarkup, bridge)
	if err != nil {
		t.Fatalf("ParsePage() error: %v", err)
	}
	return p
}

func TestLoadNotifiesBody(t *testing.T) {
	p := newTestPage(t)

	var seen []string
	p.OnLoad(func(content *dom.Element) error {
		seen = append(seen, content.TagName())
		return nil
	})

	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(seen) != 1 || seen[0] != "body" {
		t.Errorf("handlers saw %v, want [body]", seen)
	}
}

func TestBridgeStampsClickables(t *testing.T) {
	p := newTestPage(t)
	p.OnLoad(func(content *dom.Element) error {
		content.QuerySelector("#go").AddEventListener("click", func(dom.Event) error { return nil })
		return nil
	})

	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	button := p.Document().GetElementByID("go")
	post, _ := button.Attr("hx-post")
	if post != "/ui/click/"+button.NodeID() {
		t.Errorf("hx-post = %q, want /ui/click/%s", post, button.NodeID())
	}
	if target, _ := button.Attr("hx-target"); target != "#slot" {
		t.Errorf("hx-target = %q, want #slot", target)
	}
	if _, ok := p.Document().GetElementByID("slot").Attr("hx-post"); ok {
		t.Error("elements without listeners should not be bridged")
	}
}

func TestSwap(t *testing.T) {
	p := newTestPage(t)

	var seen []string
	p.OnLoad(func(content *dom.Element) error {
		seen = append(seen, strings.Join(content.Classes(), " "))
		return nil
	})

	inner, err := p.Swap(context.Background(), "slot", `<div class="timeline">a</div><p class="note">b</p>`)
	if err != nil {
		t.Fatalf("Swap() error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "timeline" || seen[1] != "note" {
		t.Errorf("handlers saw %v, want [timeline note]", seen)
	}
	if !strings.Contains(inner, `<div class="timeline">a</div>`) {
		t.Errorf("Swap() = %q, want the inserted markup", inner)
	}
	if got := p.OuterHTML("slot"); !strings.Contains(got, `class="note"`) {
		t.Errorf("OuterHTML(slot) = %q", got)
	}
}

func TestSwapUnknownTarget(t *testing.T) {
	p := newTestPage(t)
	if _, err := p.Swap(context.Background(), "missing", "<p></p>"); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Swap() error = %v, want ErrTargetNotFound", err)
	}
	if got := p.OuterHTML("missing"); got != "" {
		t.Errorf("OuterHTML(missing) = %q, want empty", got)
	}
}

func TestHandlerErrorsDoNotStopOthers(t *testing.T) {
	p := newTestPage(t)
	boom := errors.New("boom")

	calls := 0
	p.OnLoad(func(*dom.Element) error { calls++; return boom })
	p.OnLoad(func(*dom.Element) error { calls++; return nil })

	inner, err := p.Swap(context.Background(), "slot", `<div class="timeline"></div>`)
	if !errors.Is(err, boom) {
		t.Errorf("Swap() error = %v, want boom", err)
	}
	if calls != 2 {
		t.Errorf("handlers ran %d times, want 2", calls)
	}
	if !strings.Contains(inner, "timeline") {
		t.Error("a failing handler should not undo the swap")
	}
}

func TestClick(t *testing.T) {
	p := newTestPage(t)
	clicks := 0
	p.OnLoad(func(content *dom.Element) error {
		content.QuerySelector("#go").AddEventListener("click", func(dom.Event) error {
			clicks++
			return nil
		})
		return nil
	})
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	id := p.Document().GetElementByID("go").NodeID()
	if err := p.Click(context.Background(), id); err != nil {
		t.Fatalf("Click() error: %v", err)
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}

	if err := p.Click(context.Background(), "nope"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Click(nope) error = %v, want ErrUnknownNode", err)
	}
}

func TestClicksAreSerialized(t *testing.T) {
	p := newTestPage(t)
	clicks := 0
	p.OnLoad(func(content *dom.Element) error {
		content.QuerySelector("#go").AddEventListener("click", func(dom.Event) error {
			clicks++
			return nil
		})
		return nil
	})
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	var id string
	p.View(func(doc *dom.Document) error { //nolint:errcheck
		id = doc.GetElementByID("go").NodeID()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Click(context.Background(), id); err != nil {
				t.Errorf("Click() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if clicks != 50 {
		t.Errorf("clicks = %d, want 50", clicks)
	}
}

func TestRender(t *testing.T) {
	p := newTestPage(t)
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), `<body class="page">`) {
		t.Errorf("Render() = %q", buf.String())
	}
	if p.ID() == "" || p.Created().IsZero() {
		t.Error("pages should have an id and a creation time")
	}
}
