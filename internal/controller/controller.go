// Package controller reacts to content inserted into a status page: it wires
// the expand/collapse buttons of status rows and draws timeline charts for
// freshly inserted timeline fragments.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"scantimeline/internal/charts"
	"scantimeline/internal/dom"
	"scantimeline/internal/logging"
	"scantimeline/internal/snapshot"
	"scantimeline/internal/toggle"
)

// Content categories, carried as classes on the inserted node.
const (
	CategoryPage     = "page"
	CategoryContent  = "content"
	CategoryTimeline = "timeline"
)

// Markup contract shared with the page templates.
const (
	ToggleClass      = "timelines-expand"
	SnapshotDataID   = "snapshot_data"
	StatusPKID       = "status_pk"
	summaryRowTag    = "tr"
	toggleSelector   = "." + ToggleClass
	snapshotSelector = "#" + SnapshotDataID
	statusPKSelector = "#" + StatusPKID
)

var (
	// ErrNoSummaryRow means a toggle control is not inside a table row.
	ErrNoSummaryRow = errors.New("toggle control is not inside a table row")
	// ErrNoDetailRow means the summary row has no following row to reveal.
	ErrNoDetailRow = errors.New("status row has no detail row")
	// ErrMissingPayload means a timeline fragment lacks an embedded data element.
	ErrMissingPayload = errors.New("timeline fragment is missing embedded data")
)

// Host notifies its handlers whenever content is attached to the page.
type Host interface {
	OnLoad(h dom.LoadHandler)
}

// Drawer draws a series into the placeholder of a status.
type Drawer interface {
	Draw(series snapshot.Series, pk snapshot.PK) (charts.Chart, error)
}

// Controller dispatches insertion notifications. It keeps no state of its
// own; everything it changes lives in the document.
type Controller struct {
	drawer Drawer
}

// New returns a controller drawing charts with drawer.
func New(drawer Drawer) *Controller {
	return &Controller{drawer: drawer}
}

// Register subscribes the controller to host's notifications.
func (c *Controller) Register(h Host) {
	h.OnLoad(c.HandleLoad)
}

// HandleLoad processes one inserted node. Page and content nodes get their
// toggle controls wired; timeline nodes get their chart drawn; any other node
// is ignored. Calling it twice for the same node wires the controls twice.
func (c *Controller) HandleLoad(content *dom.Element) error {
	if content == nil {
		return nil
	}

	switch {
	case content.HasClass(CategoryPage) || content.HasClass(CategoryContent):
		n := c.wireToggles(content)
		logging.Debug("Wired %d timeline toggles", n)
		return nil
	case content.HasClass(CategoryTimeline):
		return c.drawTimeline(content)
	}
	return nil
}

func (c *Controller) wireToggles(content *dom.Element) int {
	controls := content.QuerySelectorAll(toggleSelector)
	if content.HasClass(ToggleClass) {
		controls = append([]*dom.Element{content}, controls...)
	}
	for _, control := range controls {
		control.AddEventListener("click", onToggleClick)
	}
	return len(controls)
}

func onToggleClick(e dom.Event) error {
	control := e.CurrentTarget
	row := control.Closest(summaryRowTag)
	if row == nil {
		return ErrNoSummaryRow
	}
	detail := row.NextElementSibling()
	if detail == nil {
		return fmt.Errorf("%w (control %s)", ErrNoDetailRow, control.NodeID())
	}
	expanded := toggle.Flip(control, detail)
	logging.Debug("Timeline row toggled, expanded=%t", expanded)
	return nil
}

func (c *Controller) drawTimeline(content *dom.Element) error {
	var series snapshot.Series
	if err := decodeEmbedded(content, snapshotSelector, &series); err != nil {
		return err
	}
	var pk snapshot.PK
	if err := decodeEmbedded(content, statusPKSelector, &pk); err != nil {
		return err
	}

	if _, err := c.drawer.Draw(series, pk); err != nil {
		return fmt.Errorf("failed to draw timeline for status %s: %w", pk, err)
	}
	return nil
}

func decodeEmbedded(content *dom.Element, selector string, v interface{}) error {
	el := content.QuerySelector(selector)
	if el == nil {
		return fmt.Errorf("%w: %s", ErrMissingPayload, selector)
	}
	if err := json.Unmarshal([]byte(el.TextContent()), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", selector, err)
	}
	return nil
}
