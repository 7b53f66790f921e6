package charts

import (
	"errors"
	"fmt"
	"strings"

	"scantimeline/internal/dom"
)

var (
	// ErrCanvasInUse is returned when a backend is asked to draw on an
	// element that already hosts a chart.
	ErrCanvasInUse = errors.New("canvas is already in use")
	// ErrUnknownBackend is returned by NewFactory for an unsupported name.
	ErrUnknownBackend = errors.New("unknown chart backend")
)

// Attributes written on a placeholder that hosts a chart.
const (
	ChartIDAttr     = "data-chart-id"
	ChartConfigAttr = "data-chart-config"
)

// Chart is a constructed chart bound to one placeholder.
type Chart interface {
	// ID is unique per construction.
	ID() string
	Config() Config
	// Destroy detaches the chart from its placeholder.
	Destroy()
}

// Factory constructs a chart on a target element.
type Factory interface {
	New(target *dom.Element, cfg Config) (Chart, error)
}

// Backend names accepted by NewFactory.
const (
	BackendChartJS = "chartjs"
	BackendSVG     = "svg"
)

// NewFactory returns the backend called name.
func NewFactory(name string) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendChartJS:
		return ChartJSFactory{}, nil
	case BackendSVG:
		return SVGFactory{Width: DefaultSVGWidth, Height: DefaultSVGHeight}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// PlaceholderTag is the element a backend expects to draw into.
func PlaceholderTag(backend string) string {
	if strings.EqualFold(strings.TrimSpace(backend), BackendSVG) {
		return "div"
	}
	return "canvas"
}

// boundChart is the common Chart implementation: a config plus the element
// it was written to.
type boundChart struct {
	id      string
	cfg     Config
	target  *dom.Element
	cleanup func(*dom.Element)
}

func (c *boundChart) ID() string     { return c.id }
func (c *boundChart) Config() Config { return c.cfg }

func (c *boundChart) Destroy() {
	if c.target == nil {
		return
	}
	if id, _ := c.target.Attr(ChartIDAttr); id == c.id {
		c.cleanup(c.target)
		c.target.RemoveAttr(ChartIDAttr)
	}
	c.target = nil
}

func claim(target *dom.Element) error {
	if target == nil {
		return fmt.Errorf("chart target is nil")
	}
	if _, ok := target.Attr(ChartIDAttr); ok {
		return fmt.Errorf("%w: #%s", ErrCanvasInUse, target.ID())
	}
	return nil
}
