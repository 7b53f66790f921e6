// Package toggle holds the expand/collapse rule for a summary row and its
// detail row, independent of any document implementation.
package toggle

// ExpandedClass marks a toggle control whose detail row is shown.
const ExpandedClass = "up"

// Control is the clickable element; its class list caches the state.
type Control interface {
	HasClass(name string) bool
	ToggleClass(name string) bool
}

// Panel is the detail row; its hidden flag is the source of truth.
type Panel interface {
	SetHidden(hidden bool)
}

// Flip advances one click: the control's marker is toggled and the panel is
// hidden exactly when the marker is now absent. It returns the new state.
func Flip(control Control, panel Panel) (expanded bool) {
	control.ToggleClass(ExpandedClass)
	expanded = control.HasClass(ExpandedClass)
	panel.SetHidden(!expanded)
	return expanded
}
