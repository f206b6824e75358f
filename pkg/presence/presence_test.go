package presence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/artboard/pkg/geom"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestColorForIsStable(t *testing.T) {
	seen := map[string]bool{}
	for _, id := range []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace"} {
		c := ColorFor(id)
		if c != ColorFor(id) {
			t.Errorf("ColorFor(%q) not deterministic", id)
		}
		if !slices.Contains(Palette, c) {
			t.Errorf("ColorFor(%q) = %s, not in palette", id, c)
		}
		seen[c] = true
	}
	if len(seen) < 2 {
		t.Errorf("all users got the same color")
	}
}

// A record last updated 40s ago is not active even though it was never
// deleted.
func TestStaleRecordExcluded(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	store.Upsert(ctx, Record{CanvasID: "c1", UserID: "stale", Name: "Stale"})
	clock.Advance(40 * time.Second)
	store.Upsert(ctx, Record{CanvasID: "c1", UserID: "fresh", Name: "Fresh"})
	store.Upsert(ctx, Record{CanvasID: "c1", UserID: "me", Name: "Me"})

	b := NewBroadcaster(store, "c1", "me", "Me", Options{Now: clock.Now})
	active, err := b.Poll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].UserID != "fresh" {
		t.Errorf("active = %+v, want only fresh", active)
	}

	all, _ := store.List(ctx, "c1")
	if len(all) != 3 {
		t.Errorf("store holds %d records, want the stale one kept", len(all))
	}
}

func TestFilter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recs := []Record{
		{UserID: "z", LastActive: now.Add(-10 * time.Second)},
		{UserID: "me", LastActive: now},
		{UserID: "edge", LastActive: now.Add(-Freshness)},
		{UserID: "old", LastActive: now.Add(-Freshness - time.Millisecond)},
		{UserID: "a", LastActive: now.Add(-time.Second)},
	}
	got := Filter(recs, "me", now, Freshness)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.UserID)
	}
	if !slices.Equal(ids, []string{"a", "edge", "z"}) {
		t.Errorf("Filter() ids = %v", ids)
	}
}

func TestMemoryStoreUpsert(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore(clock.Now)
	ctx := context.Background()

	rec, err := store.Upsert(ctx, Record{CanvasID: "c1", UserID: "u1", Cursor: &geom.Point{X: 1, Y: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != DefaultUserName || rec.Color != ColorFor("u1") || !rec.LastActive.Equal(clock.Now()) {
		t.Errorf("upserted = %+v", rec)
	}

	clock.Advance(time.Second)
	store.Upsert(ctx, Record{CanvasID: "c1", UserID: "u1", Name: "Una", Cursor: &geom.Point{X: 5, Y: 5}})
	recs, _ := store.List(ctx, "c1")
	if len(recs) != 1 || recs[0].Name != "Una" || recs[0].Cursor.X != 5 {
		t.Errorf("records after second upsert = %+v", recs)
	}

	// A write stamped earlier than the stored one loses.
	clock.Advance(-5 * time.Second)
	got, _ := store.Upsert(ctx, Record{CanvasID: "c1", UserID: "u1", Name: "Late"})
	if got.Name != "Una" {
		t.Errorf("older write won: %+v", got)
	}

	if _, err := store.Upsert(ctx, Record{CanvasID: "c1", UserID: ""}); err == nil {
		t.Error("empty user id accepted")
	}

	store.Delete(ctx, "c1", "u1")
	if recs, _ := store.List(ctx, "c1"); len(recs) != 0 {
		t.Errorf("records after delete = %+v", recs)
	}
}

func TestInitials(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Ada Lovelace", "AL"},
		{"grace brewster hopper", "GB"},
		{"Émile", "É"},
		{"", "?"},
	}
	for _, tt := range tests {
		if got := (Record{Name: tt.name}).Initials(); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestHTTPStore(t *testing.T) {
	clock := newClock()
	backend := NewMemoryStore(clock.Now)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/canvases/c1/presence" {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			recs, _ := backend.List(r.Context(), "c1")
			json.NewEncoder(w).Encode(recs)
		case http.MethodPost:
			var in Record
			json.NewDecoder(r.Body).Decode(&in)
			in.CanvasID = "c1"
			in.UserID = r.Header.Get("X-User-ID")
			in.Name = r.Header.Get("X-User-Name")
			out, _ := backend.Upsert(r.Context(), in)
			json.NewEncoder(w).Encode(out)
		case http.MethodDelete:
			backend.Delete(r.Context(), "c1", r.Header.Get("X-User-ID"))
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	ctx := context.Background()
	rec, err := store.Upsert(ctx, Record{CanvasID: "c1", UserID: "u9", Name: "Nine", Cursor: &geom.Point{X: 3, Y: 4}})
	if err != nil {
		t.Fatal(err)
	}
	if rec.UserID != "u9" || rec.Name != "Nine" || rec.Cursor == nil || rec.Cursor.Y != 4 {
		t.Errorf("Upsert() = %+v", rec)
	}
	recs, err := store.List(ctx, "c1")
	if err != nil || len(recs) != 1 {
		t.Fatalf("List() = %v, %v", recs, err)
	}
	if err := store.Delete(ctx, "c1", "u9"); err != nil {
		t.Fatal(err)
	}
	if recs, _ := store.List(ctx, "c1"); len(recs) != 0 {
		t.Errorf("List() after delete = %v", recs)
	}
	if _, err := store.List(ctx, "other"); err == nil {
		t.Error("List(other) succeeded against a 404")
	}
}
