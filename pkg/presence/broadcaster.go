package presence

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/artboard/pkg/geom"
)

const pushTimeout = 5 * time.Second

// Options configures a [Broadcaster]. Zero values select the package
// defaults.
type Options struct {
	Interval  time.Duration // poll interval
	Throttle  time.Duration // minimum spacing of cursor pushes
	Freshness time.Duration // activity window for remote records
	Now       func() time.Time
	Logger    *log.Logger
	// OnUpdate receives the filtered collaborator list after every poll.
	// It runs on the polling goroutine.
	OnUpdate func([]Record)
}

// Broadcaster pushes the local user's cursor and polls remote
// collaborators for one canvas. Errors are logged at debug level and
// otherwise ignored.
type Broadcaster struct {
	store    Store
	canvasID string
	userID   string
	name     string

	interval  time.Duration
	throttle  time.Duration
	freshness time.Duration
	now       func() time.Time
	logger    *log.Logger
	onUpdate  func([]Record)

	mu       sync.Mutex
	cursor   *geom.Point
	lastPush time.Time
	pending  bool
	timer    *time.Timer
	closed   bool
	active   []Record
	inflight sync.WaitGroup
}

// NewBroadcaster returns a broadcaster for userID on canvasID.
func NewBroadcaster(store Store, canvasID, userID, name string, opts Options) *Broadcaster {
	b := &Broadcaster{
		store:     store,
		canvasID:  canvasID,
		userID:    userID,
		name:      name,
		interval:  opts.Interval,
		throttle:  opts.Throttle,
		freshness: opts.Freshness,
		now:       opts.Now,
		logger:    opts.Logger,
		onUpdate:  opts.OnUpdate,
	}
	if b.interval <= 0 {
		b.interval = PollInterval
	}
	if b.throttle <= 0 {
		b.throttle = ThrottleWindow
	}
	if b.freshness <= 0 {
		b.freshness = Freshness
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	return b
}

// Move records a new cursor position in document coordinates. The first
// move in a throttle window is pushed at once; later ones collapse into a
// single trailing push at the end of the window.
func (b *Broadcaster) Move(p geom.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.cursor = &p
	now := b.now()
	if b.timer == nil && now.Sub(b.lastPush) >= b.throttle {
		b.lastPush = now
		b.goPush(&p)
		return
	}
	b.pending = true
	if b.timer == nil {
		b.timer = time.AfterFunc(b.throttle-now.Sub(b.lastPush), b.flush)
	}
}

func (b *Broadcaster) flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timer = nil
	if !b.pending || b.closed {
		return
	}
	b.pending = false
	b.lastPush = b.now()
	b.goPush(b.cursor)
}

// goPush starts an asynchronous upsert. Callers hold b.mu.
func (b *Broadcaster) goPush(cursor *geom.Point) {
	var c *geom.Point
	if cursor != nil {
		cp := *cursor
		c = &cp
	}
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		b.push(ctx, c)
	}()
}

func (b *Broadcaster) push(ctx context.Context, cursor *geom.Point) {
	rec := Record{CanvasID: b.canvasID, UserID: b.userID, Name: b.name, Cursor: cursor}
	if _, err := b.store.Upsert(ctx, rec); err != nil {
		b.logger.Debug("presence push failed", "canvas", b.canvasID, "err", err)
	}
}

// Poll fetches the canvas records once, keeps other users that are still
// fresh, stores them as the active list and notifies OnUpdate.
func (b *Broadcaster) Poll(ctx context.Context) ([]Record, error) {
	recs, err := b.store.List(ctx, b.canvasID)
	if err != nil {
		return nil, err
	}
	active := Filter(recs, b.userID, b.now(), b.freshness)

	b.mu.Lock()
	b.active = active
	b.mu.Unlock()

	if b.onUpdate != nil {
		b.onUpdate(slices.Clone(active))
	}
	return active, nil
}

// Run announces the user and polls until ctx is done. The user's record is
// refreshed whenever no cursor push happened for half the freshness window,
// so idle collaborators stay visible.
func (b *Broadcaster) Run(ctx context.Context) error {
	b.heartbeat(ctx, true)
	b.poll(ctx)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.heartbeat(ctx, false)
			b.poll(ctx)
		}
	}
}

func (b *Broadcaster) poll(ctx context.Context) {
	if _, err := b.Poll(ctx); err != nil && ctx.Err() == nil {
		b.logger.Debug("presence poll failed", "canvas", b.canvasID, "err", err)
	}
}

func (b *Broadcaster) heartbeat(ctx context.Context, force bool) {
	b.mu.Lock()
	now := b.now()
	due := force || now.Sub(b.lastPush) >= b.freshness/2
	if b.closed || !due {
		b.mu.Unlock()
		return
	}
	b.lastPush = now
	cursor := b.cursor
	b.mu.Unlock()
	b.push(ctx, cursor)
}

// Active returns the collaborators from the latest poll.
func (b *Broadcaster) Active() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.active)
}

// Leave stops pushing, waits for in-flight pushes and removes the user's
// record. Failures are logged and swallowed.
func (b *Broadcaster) Leave(ctx context.Context) {
	b.mu.Lock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	b.inflight.Wait()
	if err := b.store.Delete(ctx, b.canvasID, b.userID); err != nil {
		b.logger.Debug("presence leave failed", "canvas", b.canvasID, "err", err)
	}
}
