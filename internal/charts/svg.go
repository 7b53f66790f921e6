package charts

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"scantimeline/internal/dom"
	"scantimeline/internal/snapshot"
)

// Default SVG size; the 2:1 ratio matches the Chart.js default aspect ratio.
const (
	DefaultSVGWidth  = 600
	DefaultSVGHeight = 300
)

// SVGFactory renders the chart on the server with go-chart and inlines the
// resulting SVG into the placeholder.
type SVGFactory struct {
	Width  int
	Height int
}

// New renders cfg into target's children.
func (f SVGFactory) New(target *dom.Element, cfg Config) (Chart, error) {
	if err := claim(target); err != nil {
		return nil, err
	}

	svg, err := f.Render(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := target.SetInnerHTML(string(svg)); err != nil {
		return nil, fmt.Errorf("failed to insert chart into #%s: %w", target.ID(), err)
	}

	c := &boundChart{
		id:     uuid.NewString(),
		cfg:    cfg,
		target: target,
		cleanup: func(e *dom.Element) {
			e.SetTextContent("")
		},
	}
	target.SetAttr(ChartIDAttr, c.id)
	return c, nil
}

// Render draws cfg as a standalone SVG document.
func (f SVGFactory) Render(cfg Config) ([]byte, error) {
	width, height := f.Width, f.Height
	if width <= 0 {
		width = DefaultSVGWidth
	}
	if height <= 0 {
		height = DefaultSVGHeight
	}

	var series []chart.Series
	for _, ds := range cfg.Data.Datasets {
		xs, ys := snapshot.Extract(ds.Data)
		series = append(series, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   datasetStyle(ds),
		})
	}

	c := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 16},
		},
		XAxis:  chart.XAxis{Name: cfg.Options.Scales.X.Title.Text},
		YAxis:  chart.YAxis{Name: cfg.Options.Scales.Y.Title.Text},
		Series: series,
	}

	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func datasetStyle(ds Dataset) chart.Style {
	st := chart.Style{
		StrokeColor: drawing.ColorFromHex(trimHash(ds.BorderColor)),
		StrokeWidth: ds.BorderWidth,
		DotWidth:    ds.PointRadius,
	}
	if ds.Fill {
		st.FillColor = st.StrokeColor.WithAlpha(40)
	}
	return st
}

func trimHash(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
