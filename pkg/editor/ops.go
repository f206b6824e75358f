package editor

import (
	"github.com/matzehuels/artboard/pkg/align"
	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/group"
	"github.com/matzehuels/artboard/pkg/scene"
)

// Add inserts obj at the front and selects it.
func (e *Editor) Add(obj *scene.Object) (string, error) {
	id, err := e.scene.Add(obj)
	if err != nil {
		return "", err
	}
	e.Select(id)
	return id, nil
}

// Update applies a patch to one object.
func (e *Editor) Update(id string, p scene.Patch) error {
	return e.scene.Update(id, p)
}

// DeleteSelected removes every selected object as one history step.
func (e *Editor) DeleteSelected() {
	if len(e.selection) == 0 {
		return
	}
	ids := e.Selection()
	e.scene.Batch(func() {
		for _, id := range ids {
			e.scene.Remove(id)
		}
	})
}

// DuplicateSelected copies the selected objects and selects the copies.
func (e *Editor) DuplicateSelected() []string {
	var copies []string
	ids := e.Selection()
	e.scene.Batch(func() {
		for _, id := range ids {
			if cp, err := e.scene.Duplicate(id); err == nil {
				copies = append(copies, cp)
			}
		}
	})
	if len(copies) > 0 {
		e.Select(copies...)
	}
	return copies
}

// Align aligns the selection and reports whether anything was done.
// Selections that are too small are ignored.
func (e *Editor) Align(mode align.Mode) bool {
	return e.silent(align.Align(e.scene, e.selection, mode))
}

// Distribute spaces the selection evenly and reports whether anything was
// done. Selections that are too small are ignored.
func (e *Editor) Distribute(axis align.Axis) bool {
	return e.silent(align.Distribute(e.scene, e.selection, axis))
}

// Group groups the selection and selects the new group. It returns "" when
// fewer than two top-level objects are selected.
func (e *Editor) Group() string {
	id, err := group.GroupSelected(e.scene, e.selection)
	if !e.silent(err) {
		return ""
	}
	e.Select(id)
	return id
}

// Ungroup dissolves the selected group and selects its former children.
func (e *Editor) Ungroup() bool {
	children, ok := group.UngroupSelected(e.scene, e.selection)
	if !ok {
		return false
	}
	e.Select(children...)
	return true
}

// silent swallows selection validation errors and logs anything else.
func (e *Editor) silent(err error) bool {
	switch {
	case err == nil:
		return true
	case apperr.Is(err, apperr.ErrCodeInvalidSelection):
		e.logger.Debug("ignored", "reason", err)
	default:
		e.logger.Warn("edit failed", "err", err)
	}
	return false
}
