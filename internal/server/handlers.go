package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"scantimeline/internal/charts"
	"scantimeline/internal/dom"
	"scantimeline/internal/fixtures"
	"scantimeline/internal/host"
	"scantimeline/internal/i18n"
	"scantimeline/internal/logging"
	"scantimeline/internal/version"
)

// handleStatusPage builds a fresh status page for the session and renders it
func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionStore.Get(r, sessionName)
	if err != nil {
		logging.Debug("Discarding unreadable session: %v", err)
	}
	if old, ok := session.Values[pageIDKey].(string); ok {
		s.dropPage(old)
	}

	lp, err := s.newPage(r.Context())
	if err != nil {
		logging.Error("Failed to build status page: %v", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	session.Values[pageIDKey] = lp.page.ID()
	if err := session.Save(r, w); err != nil {
		logging.Error("Failed to save session: %v", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := lp.page.Render(w); err != nil {
		logging.Error("Error rendering status page: %v", err)
	}
}

// handleTimeline swaps a status's timeline fragment into its detail cell and
// returns the cell content with the chart drawn
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	lp := getPageFromContext(r.Context())
	pk := r.PathValue("pk")

	status, err := s.statuses.Lookup(pk)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	fragment, err := s.renderTimeline(status)
	if err != nil {
		logging.Error("%v", err)
		http.Error(w, "Error rendering timeline", http.StatusInternalServerError)
		return
	}

	inner, err := lp.page.Swap(r.Context(), timelineCellID(pk), fragment)
	if errors.Is(err, host.ErrTargetNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logging.Warning("Timeline for status %s inserted with errors: %v", pk, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(inner)) //nolint:errcheck
}

// handleClick forwards a browser click to the page and returns the updated
// status table
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	lp := getPageFromContext(r.Context())

	err := lp.page.Click(r.Context(), r.PathValue("nodeID"))
	if errors.Is(err, host.ErrUnknownNode) {
		http.NotFound(w, r)
		return
	}

	var table string
	lp.page.View(func(doc *dom.Document) error { //nolint:errcheck
		if el := doc.GetElementByID(statusTableID); el != nil {
			table = el.InnerHTML()
		}
		return nil
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(table)) //nolint:errcheck
}

// handleTimelineSVG exports a status's timeline as a standalone SVG
func (s *Server) handleTimelineSVG(w http.ResponseWriter, r *http.Request) {
	status, err := s.statuses.Lookup(r.PathValue("pk"))
	if errors.Is(err, fixtures.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	svg, err := renderSVG(status, s.translator)
	if err != nil {
		logging.Warning("Cannot export timeline for status %s: %v", status.PK, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg) //nolint:errcheck
}

func renderSVG(status fixtures.Status, tr i18n.Translator) ([]byte, error) {
	cfg := charts.TimelineConfig(status.Snapshots, tr)
	return charts.SVGFactory{Width: charts.DefaultSVGWidth, Height: charts.DefaultSVGHeight}.Render(cfg)
}

// handleHealth reports liveness and the number of live pages
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":   "ok",
		"pages":    s.pages.Len(),
		"statuses": s.statuses.Len(),
	})
}

// handleVersion reports build information
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Get())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response: %v", err)
	}
}
