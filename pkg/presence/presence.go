// Package presence shares collaborator cursors through a polled store.
//
// Presence is advisory. Each client upserts its own [Record] (throttled on
// pointer movement) and periodically lists the records of the canvas,
// keeping only other users whose last activity is within the freshness
// window. Staleness is evaluated at read time; records are never required
// to be deleted, although a client removes its own record when it leaves.
//
// Store backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [RedisStore]: shared store for multi-instance servers
//   - [HTTPStore]: client for the artboard server API
package presence

import (
	"context"
	"hash/fnv"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/artboard/pkg/geom"
)

// Timing defaults.
const (
	Freshness       = 30 * time.Second
	PollInterval    = 2 * time.Second
	ThrottleWindow  = 100 * time.Millisecond
	DefaultUserName = "Anonymous"
)

// Palette is the fixed set of collaborator colors.
var Palette = []string{"#2B5FD9", "#E63946", "#10B981", "#F59E0B", "#8B5CF6", "#EC4899"}

// Record is one collaborator's presence on a canvas.
type Record struct {
	CanvasID   string      `json:"canvas_id" bson:"canvas_id"`
	UserID     string      `json:"user_id" bson:"user_id"`
	Name       string      `json:"name" bson:"name"`
	Color      string      `json:"color" bson:"color"`
	Cursor     *geom.Point `json:"cursor,omitempty" bson:"cursor,omitempty"`
	LastActive time.Time   `json:"last_active" bson:"last_active"`
}

// Active reports whether the record is within the freshness window at now.
func (r Record) Active(now time.Time, window time.Duration) bool {
	return now.Sub(r.LastActive) <= window
}

// Initials returns up to two uppercase initials of the display name.
func (r Record) Initials() string {
	var out []rune
	for _, f := range strings.Fields(r.Name) {
		out = append(out, []rune(strings.ToUpper(f))[0])
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// ColorFor maps a user id to a palette color. The same id always gets the
// same color.
func ColorFor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// Filter returns the records of other users that are active at now, sorted
// by user id.
func Filter(recs []Record, self string, now time.Time, window time.Duration) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.UserID == self || !r.Active(now, window) {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Record) int { return strings.Compare(a.UserID, b.UserID) })
	return out
}

// Store persists presence records keyed by (canvas, user).
//
// Upsert stamps LastActive with the store's clock and keeps the newest
// write per key. List returns every record of a canvas, stale ones
// included; callers apply the freshness filter.
type Store interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, canvasID string) ([]Record, error)
	Delete(ctx context.Context, canvasID, userID string) error
	Close() error
}
