package editor

import (
	"context"
	"errors"

	"github.com/matzehuels/artboard/pkg/asset"
	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/persist"
	"github.com/matzehuels/artboard/pkg/scene"
)

// Load replaces the scene with the stored document. A canvas that was
// never saved loads as empty. Loading does not trigger a save.
func (e *Editor) Load(ctx context.Context) error {
	if e.store == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "editor has no store")
	}
	doc, err := e.store.Load(ctx, e.canvasID)
	if errors.Is(err, persist.ErrNotFound) {
		e.replace(scene.State{}, false)
		return nil
	}
	if err != nil {
		return err
	}
	st, err := doc.State()
	if err != nil {
		return err
	}
	e.replace(st, false)
	e.logger.Debug("loaded canvas", "canvas", e.canvasID, "objects", st.Len())
	return nil
}

// LoadState replaces the scene without saving, resetting the history.
func (e *Editor) LoadState(st scene.State) {
	e.replace(st, false)
}

// LoadTemplate replaces the scene with a template, resets the history and
// schedules a save of the result.
func (e *Editor) LoadTemplate(recs []scene.Record) error {
	st, err := scene.Decode(recs)
	if err != nil {
		return err
	}
	e.replace(st, true)
	return nil
}

func (e *Editor) replace(st scene.State, save bool) {
	e.cancelDrag()
	e.selection = nil
	e.quiet = !save
	e.scene.Restore(st)
	e.quiet = false
	e.history.Reset(e.scene.Snapshot())
}

// AddImage resolves url, adds it as an image object scaled to fit the
// visible area and centered in it, and selects it. Failures are returned
// as RESOURCE_LOAD errors wrapping an *asset.LoadError.
func (e *Editor) AddImage(ctx context.Context, url string) (string, error) {
	info, err := e.assets.Load(ctx, url)
	if err != nil {
		return "", err
	}
	w, h := float64(info.Width), float64(info.Height)
	view := e.vp.Visible()
	scale := asset.FitScale(w, h, view.W, view.H)

	c := view.Center()
	obj := scene.NewImage(url, c.X-w*scale/2, c.Y-h*scale/2, w, h)
	obj.ScaleX, obj.ScaleY = scale, scale
	id, err := e.Add(obj)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInternal, err, "add image")
	}
	return id, nil
}
