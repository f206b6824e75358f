package editor

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/artboard/pkg/asset"
	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/history"
	"github.com/matzehuels/artboard/pkg/observability"
	"github.com/matzehuels/artboard/pkg/persist"
	"github.com/matzehuels/artboard/pkg/scene"
	"github.com/matzehuels/artboard/pkg/snap"
	"github.com/matzehuels/artboard/pkg/viewport"
)

// Default viewport size used when Options leave it unset.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

// Options configures an [Editor]. Zero values select defaults.
type Options struct {
	CanvasID string
	Width    float64
	Height   float64

	Snap            snap.Config
	SnapDisabled    bool
	HistoryCapacity int

	// Store receives debounced autosaves. Nil disables persistence.
	Store    persist.Store
	Autosave persist.AutosaveOptions

	// Assets resolves images for AddImage. Nil uses a default loader.
	Assets *asset.Loader

	// Cursor, when set, receives the pointer position in document
	// coordinates on every move (typically a presence broadcaster).
	Cursor func(geom.Point)

	// OnChange is called after the scene, selection or derived views
	// change.
	OnChange func()

	Logger *log.Logger
}

// Editor is one editing session on a canvas.
type Editor struct {
	canvasID string
	scene    *scene.Scene
	vp       *viewport.Viewport
	pan      *viewport.PanGesture
	history  *history.Manager
	store    persist.Store
	saver    *persist.Autosaver
	assets   *asset.Loader
	logger   *log.Logger
	cursor   func(geom.Point)
	onChange func()

	snapCfg  snap.Config
	snapping bool

	tool      Tool
	selection []string
	drag      *drag
	guides    snap.Guides
	rulers    []RulerGuide

	unsubscribe func()
	quiet       bool // suppresses autosave while loading
	closed      bool
}

// New returns an editor on an empty scene. The empty state is the first
// history entry.
func New(opts Options) *Editor {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Snap == (snap.Config{}) {
		opts.Snap = snap.DefaultConfig()
	}
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = history.DefaultCapacity
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Assets == nil {
		opts.Assets = asset.NewLoader(asset.Options{Logger: opts.Logger})
	}
	if opts.Autosave.Logger == nil {
		opts.Autosave.Logger = opts.Logger
	}

	vp := viewport.New(opts.Width, opts.Height)
	e := &Editor{
		canvasID: opts.CanvasID,
		scene:    scene.New(),
		vp:       vp,
		pan:      viewport.NewPanGesture(vp),
		history:  history.New(opts.HistoryCapacity),
		store:    opts.Store,
		assets:   opts.Assets,
		logger:   opts.Logger,
		cursor:   opts.Cursor,
		onChange: opts.OnChange,
		snapCfg:  opts.Snap,
		snapping: !opts.SnapDisabled,
		tool:     ToolSelect,
	}
	if opts.Store != nil && opts.CanvasID != "" {
		e.saver = persist.NewAutosaver(opts.Store, opts.CanvasID, opts.Autosave)
	}
	e.history.Reset(e.scene.Snapshot())
	e.unsubscribe = e.scene.Subscribe(e.handle)
	return e
}

// Scene returns the edited scene. Mutations made directly on it are
// committed like editor operations.
func (e *Editor) Scene() *scene.Scene { return e.scene }

// Viewport returns the editor viewport.
func (e *Editor) Viewport() *viewport.Viewport { return e.vp }

// CanvasID returns the id the editor saves under.
func (e *Editor) CanvasID() string { return e.canvasID }

func (e *Editor) handle(ev scene.Event) {
	switch ev.Type {
	case scene.EventRestored:
		e.pruneSelection()
		e.schedule()
	default:
		if d := e.drag; d != nil {
			if !d.applying {
				d.external = true
			}
			break
		}
		e.commit()
	}
	e.changed()
}

// commit records the current scene and schedules an autosave.
func (e *Editor) commit() {
	st := e.scene.Snapshot()
	seq := e.history.Record(st)
	observability.Editor().OnSnapshot(context.Background(), e.canvasID, seq, st.Len())
	e.pruneSelection()
	e.schedule()
}

func (e *Editor) schedule() {
	if e.saver == nil || e.closed || e.quiet {
		return
	}
	e.saver.Schedule(scene.Encode(e.scene.Snapshot()))
}

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Undo restores the previous snapshot. It reports false at the start of
// the history. A drag in progress is ended and recorded first, so Undo
// reverts it.
func (e *Editor) Undo() bool {
	e.cancelDrag()
	st, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.scene.Restore(st)
	if cur, ok := e.history.Current(); ok {
		observability.Editor().OnUndo(context.Background(), e.canvasID, cur.Seq)
	}
	return true
}

// Redo re-applies the next snapshot. It reports false at the end of the
// history, which includes the case where ending a drag recorded a new
// step.
func (e *Editor) Redo() bool {
	e.cancelDrag()
	st, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.scene.Restore(st)
	if cur, ok := e.history.Current(); ok {
		observability.Editor().OnRedo(context.Background(), e.canvasID, cur.Seq)
	}
	return true
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// HistoryCounts returns how many undo and redo steps are available.
func (e *Editor) HistoryCounts() (undo, redo int) { return e.history.Counts() }

// Dirty reports whether an autosave is pending or failed.
func (e *Editor) Dirty() bool {
	return e.saver != nil && e.saver.Dirty()
}

// SaveError returns the error of the latest autosave, or nil.
func (e *Editor) SaveError() error {
	if e.saver == nil {
		return nil
	}
	return e.saver.LastError()
}

// Flush saves pending changes now.
func (e *Editor) Flush(ctx context.Context) error {
	if e.saver == nil {
		return nil
	}
	return e.saver.Flush(ctx)
}

// Close stops autosave timers and detaches from the scene. A save already
// in flight is not rolled back.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.unsubscribe()
	if e.saver != nil {
		e.saver.Close()
	}
}

// Selection returns the selected top-level ids in selection order.
func (e *Editor) Selection() []string { return slices.Clone(e.selection) }

// Select replaces the selection. Unknown ids and ids of group children
// are ignored.
func (e *Editor) Select(ids ...string) {
	e.selection = e.selection[:0]
	for _, id := range ids {
		if e.scene.Index(id) >= 0 && !slices.Contains(e.selection, id) {
			e.selection = append(e.selection, id)
		}
	}
	e.changed()
}

// SelectAll selects every visible top-level object.
func (e *Editor) SelectAll() {
	var ids []string
	for _, o := range e.scene.All() {
		if !o.Hidden {
			ids = append(ids, o.ID)
		}
	}
	e.Select(ids...)
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.Select()
}

// IsSelected reports whether id is selected.
func (e *Editor) IsSelected(id string) bool {
	return slices.Contains(e.selection, id)
}

// pruneSelection drops ids that are no longer top-level objects.
func (e *Editor) pruneSelection() {
	e.selection = slices.DeleteFunc(e.selection, func(id string) bool {
		return e.scene.Index(id) < 0
	})
}
