// Package timeline draws a status's scan-progress chart into its placeholder.
package timeline

import (
	"scantimeline/internal/charts"
	"scantimeline/internal/dom"
	"scantimeline/internal/i18n"
	"scantimeline/internal/logging"
	"scantimeline/internal/snapshot"
)

// PlaceholderPrefix is prepended to the status pk to form the placeholder id.
const PlaceholderPrefix = "line_chart_status__"

// PlaceholderID returns the element id reserved for pk's chart.
func PlaceholderID(pk snapshot.PK) string {
	return PlaceholderPrefix + pk.String()
}

// Renderer binds series to placeholders in one document.
type Renderer struct {
	doc        *dom.Document
	registry   *charts.Registry
	translator i18n.Translator
}

// NewRenderer returns a renderer for doc.
func NewRenderer(doc *dom.Document, registry *charts.Registry, tr i18n.Translator) *Renderer {
	return &Renderer{
		doc:        doc,
		registry:   registry,
		translator: tr,
	}
}

// Draw constructs one chart for series on pk's placeholder. A missing
// placeholder is not an error: Draw returns (nil, nil) and nothing is drawn.
// Backend and duplicate-policy errors are returned as is.
func (r *Renderer) Draw(series snapshot.Series, pk snapshot.PK) (charts.Chart, error) {
	target := r.doc.GetElementByID(PlaceholderID(pk))
	if target == nil {
		logging.Debug("No placeholder for status %s, skipping chart", pk)
		return nil, nil
	}

	cfg := charts.TimelineConfig(series, r.translator)
	c, err := r.registry.Construct(pk.String(), target, cfg)
	if err != nil {
		return nil, err
	}
	logging.Debug("Drew timeline for status %s with %d points", pk, len(series))
	return c, nil
}
