package server

import (
	"bytes"
	"context"
	"fmt"

	"scantimeline/internal/charts"
	"scantimeline/internal/controller"
	"scantimeline/internal/dom"
	"scantimeline/internal/fixtures"
	"scantimeline/internal/host"
	"scantimeline/internal/logging"
	"scantimeline/internal/snapshot"
	"scantimeline/internal/timeline"
)

// Markup identities shared with the templates.
const (
	statusTableID      = "status_table"
	timelineCellPrefix = "timeline_cell__"
)

// livePage is one browser session's status page and the charts drawn on it.
type livePage struct {
	page     *host.Page
	registry *charts.Registry
}

type statusPageData struct {
	Lang     string
	Statuses []fixtures.Status
}

// newPage renders the status page, wires a controller to it and announces
// the page body, as the browser does on first load.
func (s *Server) newPage(ctx context.Context) (*livePage, error) {
	var buf bytes.Buffer
	data := statusPageData{
		Lang:     s.translator.Language().String(),
		Statuses: s.statuses.All(),
	}
	if err := s.templates.ExecuteTemplate(&buf, "status_page", data); err != nil {
		return nil, fmt.Errorf("failed to render status page: %w", err)
	}

	page, err := host.ParsePage(buf.String(), host.Bridge{
		ClickEndpoint: clickEndpoint,
		Target:        "#" + statusTableID,
		Swap:          "innerHTML",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse status page: %w", err)
	}

	registry := charts.NewRegistry(s.factory, s.config.DuplicatePolicy())
	renderer := timeline.NewRenderer(page.Document(), registry, s.translator)
	controller.New(renderer).Register(page)

	if err := page.Load(ctx); err != nil {
		logging.Error("Page %s loaded with errors: %v", page.ID(), err)
	}

	lp := &livePage{page: page, registry: registry}
	s.pages.Set(page.ID(), lp)
	return lp, nil
}

// destroy tears down every chart on the page. Destroying a chart edits the
// document, so it runs under the page lock like swaps and clicks do.
func (lp *livePage) destroy() {
	_ = lp.page.View(func(*dom.Document) error {
		lp.registry.DestroyAll()
		return nil
	})
}

// dropPage forgets a page before it expires.
func (s *Server) dropPage(id string) {
	if lp, ok := s.pages.Get(id); ok {
		lp.destroy()
	}
	s.pages.Delete(id)
}

type timelineData struct {
	SVG       bool
	PK        snapshot.PK
	Snapshots snapshot.Series
}

// renderTimeline renders the fragment that carries a status's chart
// placeholder and its embedded series.
func (s *Server) renderTimeline(status fixtures.Status) (string, error) {
	var buf bytes.Buffer
	data := timelineData{
		SVG:       charts.PlaceholderTag(s.config.ChartBackend) == "div",
		PK:        status.PK,
		Snapshots: status.Snapshots,
	}
	if err := s.templates.ExecuteTemplate(&buf, "timeline_fragment", data); err != nil {
		return "", fmt.Errorf("failed to render timeline fragment: %w", err)
	}
	return buf.String(), nil
}

func timelineCellID(pk string) string {
	return timelineCellPrefix + pk
}

// RenderTimeline builds a throwaway status page, inserts the timeline of the
// status pk into it and returns the resulting detail cell content.
func (s *Server) RenderTimeline(ctx context.Context, pk string) (string, error) {
	status, err := s.statuses.Lookup(pk)
	if err != nil {
		return "", err
	}
	fragment, err := s.renderTimeline(status)
	if err != nil {
		return "", err
	}

	lp, err := s.newPage(ctx)
	if err != nil {
		return "", err
	}
	defer s.dropPage(lp.page.ID())

	return lp.page.Swap(ctx, timelineCellID(pk), fragment)
}
