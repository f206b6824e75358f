package editor

import (
	"slices"

	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/snap"
	"github.com/matzehuels/artboard/pkg/viewport"
)

// Pointer is one pointer event in screen coordinates.
type Pointer struct {
	At     geom.Point
	Button viewport.Button
	Shift  bool
}

// drag is an in-progress move of the selection.
type drag struct {
	start  geom.Point // document point of the press
	ids    []string
	origin map[string]geom.Point
	bounds geom.Rect
	delta  geom.Point // last applied offset

	applying bool // scene events come from the drag itself
	external bool // the scene changed by other means during the drag
}

// dirty reports whether ending the drag must record history. A drag that
// returns to its origin leaves nothing to record.
func (d *drag) dirty() bool {
	return d.external || d.delta != (geom.Point{})
}

// PointerDown handles a button press. Panning takes precedence over every
// tool; while a pan is engaged the selection is left alone.
func (e *Editor) PointerDown(p Pointer) {
	if e.pan.Down(p.Button, p.At) {
		return
	}
	if p.Button != viewport.ButtonPrimary {
		return
	}
	at := e.vp.ToDocument(p.At)

	if obj := e.tool.create(at.X, at.Y); obj != nil {
		id, err := e.scene.Add(obj)
		if err != nil {
			e.logger.Warn("create object", "tool", e.tool, "err", err)
			return
		}
		e.tool = ToolSelect
		e.Select(id)
		return
	}

	hit := e.HitTest(p.At)
	switch {
	case hit == "":
		if !p.Shift {
			e.ClearSelection()
		}
		return
	case p.Shift:
		if e.IsSelected(hit) {
			e.Select(slices.DeleteFunc(e.Selection(), func(id string) bool { return id == hit })...)
		} else {
			e.Select(append(e.Selection(), hit)...)
		}
		return
	case !e.IsSelected(hit):
		e.Select(hit)
	}
	e.beginDrag(at)
}

// PointerMove handles pointer motion: it pans, drags the selection with
// snapping, and reports the cursor position.
func (e *Editor) PointerMove(p Pointer) {
	at := e.vp.ToDocument(p.At)
	if e.cursor != nil {
		e.cursor(at)
	}
	if e.pan.Move(p.At) {
		e.changed()
		return
	}
	if e.drag == nil {
		return
	}
	e.dragTo(at)
}

// PointerUp ends a pan or commits a drag.
func (e *Editor) PointerUp(Pointer) {
	if e.pan.Active() {
		e.pan.Up()
		return
	}
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	e.guides = snap.Guides{}
	if d.dirty() {
		e.commit()
	}
	e.changed()
}

// HitTest returns the front-most visible, unlocked top-level object under
// the screen point, or "".
func (e *Editor) HitTest(screen geom.Point) string {
	at := e.vp.ToDocument(screen)
	objs := e.scene.All()
	for i := len(objs) - 1; i >= 0; i-- {
		o := objs[i]
		if o.Hidden || o.Locked {
			continue
		}
		b, err := e.scene.Bounds(o.ID)
		if err == nil && b.Contains(at) {
			return o.ID
		}
	}
	return ""
}

// Dragging reports whether a selection drag is in progress.
func (e *Editor) Dragging() bool { return e.drag != nil }

// SmartGuides returns the snap guides of the current drag. They are empty
// when no drag is in progress.
func (e *Editor) SmartGuides() snap.Guides { return e.guides }

// SetSnapping turns snapping on or off.
func (e *Editor) SetSnapping(on bool) { e.snapping = on }

// Wheel zooms toward the screen point.
func (e *Editor) Wheel(deltaY float64, at geom.Point) {
	e.vp.Wheel(deltaY, at)
	e.changed()
}

// SetPanModifier records whether the pan modifier key is held.
func (e *Editor) SetPanModifier(down bool) { e.pan.SetModifier(down) }

// ZoomIn zooms in one step around the viewport center.
func (e *Editor) ZoomIn() {
	e.vp.ZoomIn()
	e.changed()
}

// ZoomOut zooms out one step around the viewport center.
func (e *Editor) ZoomOut() {
	e.vp.ZoomOut()
	e.changed()
}

// ZoomToFit fits every visible top-level object into the view.
func (e *Editor) ZoomToFit() {
	var rects []geom.Rect
	for _, o := range e.scene.All() {
		if o.Hidden {
			continue
		}
		if b, err := e.scene.Bounds(o.ID); err == nil {
			rects = append(rects, b)
		}
	}
	e.vp.ZoomToFit(rects)
	e.changed()
}

// ResetView restores zoom 1 and no pan.
func (e *Editor) ResetView() {
	e.vp.Reset()
	e.changed()
}

func (e *Editor) beginDrag(at geom.Point) {
	d := &drag{start: at, origin: make(map[string]geom.Point)}
	for _, id := range e.selection {
		o, ok := e.scene.Get(id)
		if !ok || o.Locked {
			continue
		}
		d.ids = append(d.ids, id)
		d.origin[id] = o.Position()
	}
	b, ok := e.scene.UnionBounds(d.ids)
	if !ok {
		return
	}
	d.bounds = b
	e.drag = d
}

func (e *Editor) dragTo(at geom.Point) {
	d := e.drag
	delta := at.Sub(d.start)
	if e.snapping {
		res := snap.Snap(d.bounds.Translate(delta.X, delta.Y), e.snapTargets(), e.snapCfg)
		delta = delta.Add(res.Delta)
		e.guides = res.Guides
	}
	if delta == d.delta {
		return
	}
	d.delta = delta
	d.applying = true
	defer func() { d.applying = false }()
	e.scene.Batch(func() {
		for _, id := range d.ids {
			o := d.origin[id].Add(delta)
			if err := e.scene.MoveTo(id, o.X, o.Y); err != nil {
				e.logger.Debug("drag", "id", id, "err", err)
			}
		}
	})
}

// snapTargets returns the bounds of visible top-level objects outside the
// selection.
func (e *Editor) snapTargets() []geom.Rect {
	var out []geom.Rect
	for _, o := range e.scene.All() {
		if o.Hidden || e.IsSelected(o.ID) {
			continue
		}
		if b, err := e.scene.Bounds(o.ID); err == nil {
			out = append(out, b)
		}
	}
	return out
}

// cancelDrag drops an in-progress drag. Moves already applied are kept and
// committed.
func (e *Editor) cancelDrag() {
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	e.guides = snap.Guides{}
	if d.dirty() {
		e.commit()
	}
}
