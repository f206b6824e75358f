package editor

import (
	"github.com/google/uuid"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/scene"
)

// Layer is one row of the layer panel.
type Layer struct {
	ID       string
	Name     string
	Kind     scene.Kind
	Depth    int
	Visible  bool
	Locked   bool
	Selected bool
}

// Layers lists every object in paint order, groups followed by their
// children. Visible reflects the object's own flag, not its ancestors.
func (e *Editor) Layers() []Layer {
	var out []Layer
	_ = e.scene.Walk(func(n scene.Node) error {
		o := n.Object
		name := o.Name
		if name == "" {
			name = scene.DefaultName(o.Kind())
		}
		out = append(out, Layer{
			ID:       o.ID,
			Name:     name,
			Kind:     o.Kind(),
			Depth:    n.Depth,
			Visible:  !o.Hidden,
			Locked:   o.Locked,
			Selected: e.IsSelected(o.ID),
		})
		return nil
	})
	return out
}

// ToggleVisibility flips the hidden flag of an object.
func (e *Editor) ToggleVisibility(id string) error {
	o, ok := e.scene.Get(id)
	if !ok {
		return notFound(id)
	}
	return e.scene.Update(id, scene.Patch{Hidden: scene.Bool(!o.Hidden)})
}

// ToggleLock flips the locked flag of an object. Locked objects cannot be
// picked or dragged on the canvas.
func (e *Editor) ToggleLock(id string) error {
	o, ok := e.scene.Get(id)
	if !ok {
		return notFound(id)
	}
	locking := !o.Locked
	if err := e.scene.Update(id, scene.Patch{Locked: scene.Bool(locking)}); err != nil {
		return err
	}
	if locking && e.IsSelected(id) {
		e.Select(deleteID(e.Selection(), id)...)
	}
	return nil
}

// Rename sets the display name of an object.
func (e *Editor) Rename(id, name string) error {
	return e.scene.Update(id, scene.Patch{Name: scene.String(name)})
}

// DuplicateLayer copies a top-level object and selects the copy.
func (e *Editor) DuplicateLayer(id string) (string, error) {
	cp, err := e.scene.Duplicate(id)
	if err != nil {
		return "", err
	}
	e.Select(cp)
	return cp, nil
}

// DeleteLayer removes an object and its descendants.
func (e *Editor) DeleteLayer(id string) error {
	if !e.scene.Has(id) {
		return notFound(id)
	}
	e.scene.Remove(id)
	return nil
}

// ReorderLayer moves a top-level object to a new z-index.
func (e *Editor) ReorderLayer(id string, index int) error {
	return e.scene.Reorder(id, index)
}

// Orientation is the direction of a ruler guide line.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// RulerGuide is a user-placed guide line at a document coordinate.
// Ruler guides are view state; they are not saved with the document.
type RulerGuide struct {
	ID          string
	Orientation Orientation
	Position    float64
}

// AddGuide places a ruler guide and returns its id.
func (e *Editor) AddGuide(o Orientation, position float64) (string, error) {
	if o != Horizontal && o != Vertical {
		return "", apperr.New(apperr.ErrCodeInvalidInput, "unknown guide orientation %q", o)
	}
	g := RulerGuide{ID: uuid.NewString(), Orientation: o, Position: position}
	e.rulers = append(e.rulers, g)
	e.changed()
	return g.ID, nil
}

// MoveGuide repositions a ruler guide.
func (e *Editor) MoveGuide(id string, position float64) bool {
	for i := range e.rulers {
		if e.rulers[i].ID == id {
			e.rulers[i].Position = position
			e.changed()
			return true
		}
	}
	return false
}

// RemoveGuide deletes a ruler guide and reports whether it existed.
func (e *Editor) RemoveGuide(id string) bool {
	for i, g := range e.rulers {
		if g.ID == id {
			e.rulers = append(e.rulers[:i], e.rulers[i+1:]...)
			e.changed()
			return true
		}
	}
	return false
}

// Guides returns the ruler guides in placement order.
func (e *Editor) Guides() []RulerGuide {
	return append([]RulerGuide(nil), e.rulers...)
}

func notFound(id string) error {
	return apperr.New(apperr.ErrCodeNotFound, "object not found: %s", id)
}

func deleteID(ids []string, id string) []string {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
