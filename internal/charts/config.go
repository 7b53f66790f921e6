// Package charts builds the status timeline chart configuration and hands it to
// a chart backend. The configuration mirrors Chart.js' line chart options so the
// same value can be emitted for the browser or rendered server-side.
package charts

import (
	"scantimeline/internal/i18n"
	"scantimeline/internal/snapshot"
)

// Fixed look of the timeline chart.
const (
	AccentColor      = "#21759c"
	BorderWidth      = 4
	PointHitRadius   = 20
	PointHoverRadius = 10
)

// Config is a line chart description in Chart.js (v3+) shape.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data carries the labels and datasets.
type Data struct {
	Labels   []float64 `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one plotted line. Data holds full x/y points rather than the
// value projection so the x axis can be linear.
type Dataset struct {
	Data             snapshot.Series `json:"data"`
	Fill             bool            `json:"fill"`
	Tension          float64         `json:"tension"`
	PointRadius      float64         `json:"pointRadius"`
	PointHitRadius   float64         `json:"pointHitRadius"`
	PointHoverRadius float64         `json:"pointHoverRadius"`
	BorderWidth      float64         `json:"borderWidth"`
	BorderColor      string          `json:"borderColor"`
}

// Options holds sizing, plugin and scale options.
type Options struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Plugins             Plugins `json:"plugins"`
	Scales              Scales  `json:"scales"`
}

// Plugins switches off everything that would make the chart interactive.
type Plugins struct {
	Legend     Display `json:"legend"`
	Tooltip    Enabled `json:"tooltip"`
	DataLabels Display `json:"datalabels"`
}

// Display is a {display: bool} plugin option.
type Display struct {
	Display bool `json:"display"`
}

// Enabled is an {enabled: bool} plugin option.
type Enabled struct {
	Enabled bool `json:"enabled"`
}

// Scales holds the two axes.
type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

// Axis is a linear scale with a title.
type Axis struct {
	Type  string    `json:"type"`
	Title AxisTitle `json:"title"`
}

// AxisTitle is the scale label.
type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// PointCount returns the number of points in the first dataset.
func (c Config) PointCount() int {
	if len(c.Data.Datasets) == 0 {
		return 0
	}
	return len(c.Data.Datasets[0].Data)
}

// TimelineConfig returns the progress chart configuration for series. The
// series is copied so later changes by the caller do not leak into the chart.
func TimelineConfig(series snapshot.Series, tr i18n.Translator) Config {
	labels, _ := snapshot.Extract(series)
	points := append(snapshot.Series{}, series...)

	return Config{
		Type: "line",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Data:             points,
				Fill:             false,
				Tension:          0,
				PointRadius:      0,
				PointHitRadius:   PointHitRadius,
				PointHoverRadius: PointHoverRadius,
				BorderWidth:      BorderWidth,
				BorderColor:      AccentColor,
			}},
		},
		Options: Options{
			Responsive: true,
			// Charts created inside hidden rows only size correctly with this on.
			MaintainAspectRatio: true,
			Plugins: Plugins{
				Legend:     Display{Display: false},
				Tooltip:    Enabled{Enabled: false},
				DataLabels: Display{Display: false},
			},
			Scales: Scales{
				X: Axis{Type: "linear", Title: AxisTitle{Display: true, Text: tr.Gettext(i18n.SecondsSinceStart)}},
				Y: Axis{Type: "linear", Title: AxisTitle{Display: true, Text: tr.Gettext(i18n.PercentScanned)}},
			},
		},
	}
}
