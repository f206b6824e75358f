package align

import (
	"math"
	"slices"
	"testing"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/scene"
)

const eps = 1e-9

func add(t *testing.T, s *scene.Scene, o *scene.Object, id string) {
	t.Helper()
	o.ID = id
	if _, err := s.Add(o); err != nil {
		t.Fatal(err)
	}
}

func rect(x, y, w, h float64) *scene.Object {
	o := scene.NewRect(x, y)
	o.Shape = scene.Rect{Width: w, Height: h}
	return o
}

func bounds(t *testing.T, s *scene.Scene, id string) geom.Rect {
	t.Helper()
	b, err := s.Bounds(id)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestAlignLeftKeepsSizes(t *testing.T) {
	s := scene.New()
	add(t, s, rect(40, 10, 30, 20), "a")
	add(t, s, rect(-15, 80, 60, 10), "b")
	rotated := rect(100, 50, 20, 40)
	rotated.Angle = 30
	add(t, s, rotated, "c")

	ids := []string{"a", "b", "c"}
	before := map[string]geom.Rect{}
	for _, id := range ids {
		before[id] = bounds(t, s, id)
	}

	if err := Align(s, ids, Left); err != nil {
		t.Fatal(err)
	}
	for _, id := range ids {
		b := bounds(t, s, id)
		if math.Abs(b.X-(-15)) > eps {
			t.Errorf("%s left = %v, want -15", id, b.X)
		}
		if math.Abs(b.W-before[id].W) > eps || math.Abs(b.H-before[id].H) > eps {
			t.Errorf("%s size changed: %+v -> %+v", id, before[id], b)
		}
		if b.Y != before[id].Y {
			t.Errorf("%s moved vertically", id)
		}
	}
}

func TestAlignModes(t *testing.T) {
	tests := []struct {
		mode  Mode
		check func(geom.Rect) float64
		want  float64
	}{
		{Left, geom.Rect.Left, 0},
		{Center, geom.Rect.CenterX, 100},
		{Right, geom.Rect.Right, 200},
		{Top, geom.Rect.Top, 0},
		{Middle, geom.Rect.CenterY, 50},
		{Bottom, geom.Rect.Bottom, 100},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			s := scene.New()
			add(t, s, rect(0, 0, 50, 20), "a")
			add(t, s, rect(150, 80, 50, 20), "b")
			if err := Align(s, []string{"a", "b"}, tt.mode); err != nil {
				t.Fatal(err)
			}
			for _, id := range []string{"a", "b"} {
				if got := tt.check(bounds(t, s, id)); math.Abs(got-tt.want) > eps {
					t.Errorf("%s = %v, want %v", id, got, tt.want)
				}
			}
		})
	}
}

// R1 (0,0,100x60) and a circle of radius 50 aligned to the top move the
// circle by its top edge, not its center.
func TestAlignTopRectAndCircle(t *testing.T) {
	for _, circleY := range []float64{0, 30} {
		s := scene.New()
		add(t, s, rect(0, 0, 100, 60), "r1")
		add(t, s, scene.NewCircle(150, circleY), "c1")

		if err := Align(s, []string{"r1", "c1"}, Top); err != nil {
			t.Fatal(err)
		}
		r1, _ := s.Get("r1")
		if r1.X != 0 || r1.Y != 0 {
			t.Errorf("circleY=%v: R1 moved to (%v,%v)", circleY, r1.X, r1.Y)
		}
		c := bounds(t, s, "c1")
		if c.Top() != 0 || c.X != 150 || c.H != 100 {
			t.Errorf("circleY=%v: C1 bounds = %+v, want top 0 at x 150", circleY, c)
		}
	}
}

func TestAlignSingleEvent(t *testing.T) {
	s := scene.New()
	add(t, s, rect(0, 0, 10, 10), "a")
	add(t, s, rect(20, 5, 10, 10), "b")
	add(t, s, rect(40, 9, 10, 10), "c")

	var events []scene.Event
	s.Subscribe(func(e scene.Event) { events = append(events, e) })
	if err := Align(s, []string{"a", "b", "c"}, Bottom); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Type != scene.EventModified {
		t.Errorf("events = %+v, want one modified", events)
	}
}

func TestAlignTooFew(t *testing.T) {
	s := scene.New()
	add(t, s, rect(5, 5, 10, 10), "a")

	var events int
	s.Subscribe(func(scene.Event) { events++ })
	for _, ids := range [][]string{nil, {"a"}, {"a", "missing"}} {
		if err := Align(s, ids, Left); !apperr.Is(err, apperr.ErrCodeInvalidSelection) {
			t.Errorf("Align(%v) error = %v", ids, err)
		}
	}
	if events != 0 {
		t.Errorf("no-op align emitted %d events", events)
	}
}

func TestDistributeEqualGaps(t *testing.T) {
	tests := []struct {
		name  string
		axis  Axis
		rects []geom.Rect
	}{
		{"horizontal", Horizontal, []geom.Rect{
			{X: 0, Y: 0, W: 10, H: 10},
			{X: 300, Y: 40, W: 50, H: 10},
			{X: 35, Y: 10, W: 20, H: 10},
			{X: 90, Y: 0, W: 5, H: 10},
		}},
		{"vertical", Vertical, []geom.Rect{
			{X: 0, Y: 100, W: 10, H: 30},
			{X: 5, Y: 0, W: 10, H: 10},
			{X: 9, Y: 13, W: 10, H: 70},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New()
			var ids []string
			for i, r := range tt.rects {
				id := string(rune('a' + i))
				add(t, s, rect(r.X, r.Y, r.W, r.H), id)
				ids = append(ids, id)
			}
			if err := Distribute(s, ids, tt.axis); err != nil {
				t.Fatal(err)
			}

			lead, size := leadSize(tt.axis)
			var bs []geom.Rect
			for _, id := range ids {
				bs = append(bs, bounds(t, s, id))
			}
			slices.SortFunc(bs, func(a, b geom.Rect) int {
				if lead(a) < lead(b) {
					return -1
				}
				return 1
			})
			gap := lead(bs[1]) - (lead(bs[0]) + size(bs[0]))
			for i := 1; i < len(bs); i++ {
				g := lead(bs[i]) - (lead(bs[i-1]) + size(bs[i-1]))
				if math.Abs(g-gap) > 1e-6 {
					t.Errorf("gap %d = %v, want %v", i, g, gap)
				}
			}
		})
	}
}

func TestDistributeTooFew(t *testing.T) {
	s := scene.New()
	add(t, s, rect(0, 0, 10, 10), "a")
	add(t, s, rect(50, 0, 10, 10), "b")
	if err := Distribute(s, []string{"a", "b"}, Horizontal); !apperr.Is(err, apperr.ErrCodeInvalidSelection) {
		t.Errorf("Distribute() error = %v", err)
	}
	if b, _ := s.Get("b"); b.X != 50 {
		t.Errorf("b moved to %v", b.X)
	}
}

func TestParse(t *testing.T) {
	if m, err := ParseMode("middle"); err != nil || m != Middle {
		t.Errorf("ParseMode(middle) = %v, %v", m, err)
	}
	if _, err := ParseMode("diagonal"); err == nil {
		t.Error("ParseMode(diagonal) succeeded")
	}
	if a, err := ParseAxis("vertical"); err != nil || a != Vertical {
		t.Errorf("ParseAxis(vertical) = %v, %v", a, err)
	}
	if _, err := ParseAxis("z"); err == nil {
		t.Error("ParseAxis(z) succeeded")
	}
}
