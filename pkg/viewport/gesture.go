package viewport

import "github.com/matzehuels/artboard/pkg/geom"

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PanGesture tracks a drag-to-pan interaction. It engages on the middle
// button, or on the primary button while the pan modifier (space) is held.
// While engaged, callers must not start selections.
type PanGesture struct {
	vp       *Viewport
	modifier bool
	active   bool
	last     geom.Point
}

// NewPanGesture returns a gesture that pans vp.
func NewPanGesture(vp *Viewport) *PanGesture {
	return &PanGesture{vp: vp}
}

// SetModifier records whether the pan modifier key is held.
func (g *PanGesture) SetModifier(down bool) {
	g.modifier = down
}

// Modifier reports whether the pan modifier key is held.
func (g *PanGesture) Modifier() bool { return g.modifier }

// Active reports whether a pan drag is in progress.
func (g *PanGesture) Active() bool { return g.active }

// Down handles a button press at screen point at and reports whether the
// gesture engaged.
func (g *PanGesture) Down(b Button, at geom.Point) bool {
	if b == ButtonMiddle || (b == ButtonPrimary && g.modifier) {
		g.active = true
		g.last = at
	}
	return g.active
}

// Move pans by the delta since the previous event. It reports whether the
// event was consumed.
func (g *PanGesture) Move(at geom.Point) bool {
	if !g.active {
		return false
	}
	d := at.Sub(g.last)
	g.vp.Translate(d.X, d.Y)
	g.last = at
	return true
}

// Up ends the drag.
func (g *PanGesture) Up() {
	g.active = false
}
