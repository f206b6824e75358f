package persist

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/observability"
	"github.com/matzehuels/artboard/pkg/scene"
)

// DefaultDebounce is the quiet period before an autosave fires.
const DefaultDebounce = time.Second

const saveTimeout = 10 * time.Second

// AutosaveOptions configures an [Autosaver]. Zero values select defaults.
type AutosaveOptions struct {
	Debounce time.Duration
	Logger   *log.Logger
	// OnSaved is called after every save attempt with its outcome.
	OnSaved func(error)
}

// Autosaver coalesces edits of one canvas into debounced saves.
//
// Each [Autosaver.Schedule] replaces the pending content and restarts the
// debounce timer. Saves run on the timer goroutine and never block the
// caller. A failed save is logged, reported and not retried; the document
// stays dirty until the next scheduled save succeeds.
type Autosaver struct {
	store    Store
	canvasID string
	debounce time.Duration
	logger   *log.Logger
	onSaved  func(error)

	mu       sync.Mutex
	timer    *time.Timer
	pending  []scene.Record
	gen      uint64
	savedGen uint64
	lastErr  error
	closed   bool
	inflight sync.WaitGroup

	// saveMu orders saves so older content never overwrites newer content.
	saveMu sync.Mutex
}

// NewAutosaver returns an autosaver writing canvasID to store.
func NewAutosaver(store Store, canvasID string, opts AutosaveOptions) *Autosaver {
	a := &Autosaver{
		store:    store,
		canvasID: canvasID,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		onSaved:  opts.OnSaved,
	}
	if a.debounce <= 0 {
		a.debounce = DefaultDebounce
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	return a
}

// Schedule queues recs for saving after the debounce window.
func (a *Autosaver) Schedule(recs []scene.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = cloneRecords(recs)
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.fire)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	recs, gen := a.pending, a.gen
	a.inflight.Add(1)
	a.mu.Unlock()
	defer a.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	_ = a.save(ctx, recs, gen)
}

// Flush saves pending content now, skipping the debounce. It is a no-op
// when nothing is dirty.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.gen <= a.savedGen {
		a.mu.Unlock()
		return nil
	}
	recs, gen := a.pending, a.gen
	a.mu.Unlock()
	return a.save(ctx, recs, gen)
}

func (a *Autosaver) save(ctx context.Context, recs []scene.Record, gen uint64) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	stale := gen <= a.savedGen
	a.mu.Unlock()
	if stale {
		return nil
	}

	hooks := observability.Persist()
	hooks.OnSaveStart(ctx, a.canvasID, len(recs))
	start := time.Now()
	err := a.store.Save(ctx, a.canvasID, recs)
	hooks.OnSaveComplete(ctx, a.canvasID, time.Since(start), err)

	a.mu.Lock()
	if err != nil {
		err = apperr.Wrap(apperr.ErrCodePersistence, err, "save canvas %s", a.canvasID)
		a.lastErr = err
	} else {
		a.lastErr = nil
		a.savedGen = gen
	}
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("autosave failed", "canvas", a.canvasID, "err", err)
	} else {
		a.logger.Debug("autosaved", "canvas", a.canvasID, "objects", len(recs), "took", time.Since(start))
	}
	if a.onSaved != nil {
		a.onSaved(err)
	}
	return err
}

// Dirty reports whether scheduled content has not been saved yet.
func (a *Autosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen > a.savedGen
}

// LastError returns the error of the latest save attempt, or nil.
func (a *Autosaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Wait blocks until in-flight timer saves have returned.
func (a *Autosaver) Wait() {
	a.inflight.Wait()
}

// Close cancels the pending timer. A save already running is not rolled
// back and may still complete.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
