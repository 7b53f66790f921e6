package charts

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"scantimeline/internal/dom"
)

// ChartJSFactory hands the chart to Chart.js in the browser. Construction
// serializes the configuration onto the canvas; static/js/timelines.js
// instantiates Chart.js for every canvas carrying it after each swap.
type ChartJSFactory struct{}

// New writes cfg onto target, which must be a <canvas>.
func (ChartJSFactory) New(target *dom.Element, cfg Config) (Chart, error) {
	if err := claim(target); err != nil {
		return nil, err
	}
	if target.TagName() != "canvas" {
		return nil, fmt.Errorf("chart target #%s is a <%s>, not a <canvas>", target.ID(), target.TagName())
	}

	encoded, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart config: %w", err)
	}

	c := &boundChart{
		id:     uuid.NewString(),
		cfg:    cfg,
		target: target,
		cleanup: func(e *dom.Element) {
			e.RemoveAttr(ChartConfigAttr)
		},
	}
	target.SetAttr(ChartConfigAttr, string(encoded))
	target.SetAttr(ChartIDAttr, c.id)
	return c, nil
}
