package history

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/artboard/pkg/scene"
)

func snapshotOf(t *testing.T, s *scene.Scene) scene.State {
	t.Helper()
	return s.Snapshot()
}

func equalStates(a, b scene.State) bool {
	return reflect.DeepEqual(scene.Encode(a), scene.Encode(b))
}

// N committed mutations, M undos then M redos: the scene equals the state
// before the undos.
func TestUndoRedoRoundTrip(t *testing.T) {
	for _, tt := range []struct{ n, m int }{{1, 1}, {5, 3}, {10, 10}, {12, 0}} {
		t.Run(fmt.Sprintf("n=%d,m=%d", tt.n, tt.m), func(t *testing.T) {
			s := scene.New()
			h := New(DefaultCapacity)
			h.Record(snapshotOf(t, s))

			for i := 0; i < tt.n; i++ {
				o := scene.NewRect(float64(i*10), 0)
				o.ID = fmt.Sprintf("r%d", i)
				s.Add(o)
				if i%2 == 1 {
					s.Move(fmt.Sprintf("r%d", i-1), 3, 4)
				}
				h.Record(snapshotOf(t, s))
			}
			want := s.Snapshot()

			for i := 0; i < tt.m; i++ {
				st, ok := h.Undo()
				if !ok {
					t.Fatalf("undo %d failed", i)
				}
				s.Restore(st)
			}
			if tt.m > 0 && s.Len() != tt.n-tt.m {
				t.Errorf("after undos Len() = %d, want %d", s.Len(), tt.n-tt.m)
			}
			for i := 0; i < tt.m; i++ {
				st, ok := h.Redo()
				if !ok {
					t.Fatalf("redo %d failed", i)
				}
				s.Restore(st)
			}
			if !equalStates(s.Snapshot(), want) {
				t.Error("state after undo/redo differs from state before")
			}
		})
	}
}

// After cap+1 records at most cap-1 undo steps remain.
func TestBoundedHistory(t *testing.T) {
	h := New(DefaultCapacity)
	s := scene.New()
	for i := 0; i < DefaultCapacity+1; i++ {
		o := scene.NewRect(0, 0)
		o.ID = fmt.Sprintf("r%d", i)
		s.Add(o)
		h.Record(s.Snapshot())
	}
	if h.Len() != DefaultCapacity {
		t.Errorf("Len() = %d, want %d", h.Len(), DefaultCapacity)
	}
	steps := 0
	for {
		if _, ok := h.Undo(); !ok {
			break
		}
		steps++
	}
	if steps != DefaultCapacity-1 {
		t.Errorf("undo steps = %d, want %d", steps, DefaultCapacity-1)
	}
	// The oldest entry was evicted: the earliest reachable state has 2 objects.
	cur, _ := h.Current()
	if cur.State.Len() != 2 || cur.Seq != 2 {
		t.Errorf("oldest reachable: %d objects, seq %d", cur.State.Len(), cur.Seq)
	}
}

func TestEdgesAreNoops(t *testing.T) {
	h := New(3)
	if _, ok := h.Undo(); ok {
		t.Error("Undo on empty log succeeded")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo on empty log succeeded")
	}
	h.Record(scene.New().Snapshot())
	if _, ok := h.Undo(); ok {
		t.Error("Undo with a single entry succeeded")
	}
	if h.Index() != 0 {
		t.Errorf("Index() = %d, want 0", h.Index())
	}
}

func TestRecordTruncatesRedoBranch(t *testing.T) {
	s := scene.New()
	h := New(10)
	h.Record(s.Snapshot())
	for _, id := range []string{"a", "b", "c"} {
		o := scene.NewCircle(0, 0)
		o.ID = id
		s.Add(o)
		h.Record(s.Snapshot())
	}
	h.Undo()
	h.Undo()
	if u, r := h.Counts(); u != 1 || r != 2 {
		t.Errorf("Counts() = %d, %d, want 1, 2", u, r)
	}

	st := scene.New()
	d := scene.NewLine(0, 0)
	d.ID = "d"
	st.Add(d)
	seq := h.Record(st.Snapshot())

	if h.CanRedo() {
		t.Error("redo branch survived a new record")
	}
	if h.Len() != 3 || seq != 5 {
		t.Errorf("Len() = %d seq = %d, want 3 and 5", h.Len(), seq)
	}
}

func TestRecordCopiesState(t *testing.T) {
	s := scene.New()
	o := scene.NewRect(0, 0)
	o.ID = "a"
	s.Add(o)

	h := New(5)
	st := s.Snapshot()
	h.Record(st)
	st.Objects["a"].X = 500

	cur, _ := h.Current()
	if cur.State.Objects["a"].X != 0 {
		t.Error("recorded snapshot aliased the caller's state")
	}
}

func TestReset(t *testing.T) {
	h := New(5)
	for i := 0; i < 4; i++ {
		h.Record(scene.New().Snapshot())
	}
	h.Reset(scene.New().Snapshot())
	if h.Len() != 1 || h.CanUndo() || h.CanRedo() {
		t.Errorf("after Reset: Len=%d undo=%v redo=%v", h.Len(), h.CanUndo(), h.CanRedo())
	}
}
