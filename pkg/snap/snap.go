// Package snap computes position adjustments for an object being dragged so
// that its edges and center line up with a grid or with other objects.
//
// Two rule sets are evaluated per axis:
//
//   - Grid: the leading edge, trailing edge and center are rounded to the
//     nearest multiple of the grid size.
//   - Objects: the moving box is compared with every target box using five
//     relations (left=left, right=right, center=center, left=right,
//     right=left, and the vertical analogs).
//
// A candidate applies when its distance is strictly below the threshold.
// Among applicable candidates the one with the smallest absolute delta
// wins; on a tie the first candidate in evaluation order (grid before
// objects, objects in the given order) is kept.
//
// The result carries smart guides: every target coordinate that is exactly
// aligned with the moving box after the winning adjustment.
package snap

import (
	"math"
	"slices"

	"github.com/matzehuels/artboard/pkg/geom"
)

// Defaults used when the editor is not configured otherwise.
const (
	DefaultGridSize  = 20
	DefaultThreshold = 5
)

// Config controls which rule sets run.
type Config struct {
	GridSize  float64
	Threshold float64
	Grid      bool
	Objects   bool
}

// DefaultConfig enables both rule sets with the default grid and threshold.
func DefaultConfig() Config {
	return Config{
		GridSize:  DefaultGridSize,
		Threshold: DefaultThreshold,
		Grid:      true,
		Objects:   true,
	}
}

// Guides holds the coordinates of active smart guides: X values are vertical
// lines, Y values horizontal lines.
type Guides struct {
	X []float64
	Y []float64
}

// Empty reports whether there are no guides.
func (g Guides) Empty() bool {
	return len(g.X) == 0 && len(g.Y) == 0
}

// Result is the outcome of a snap evaluation.
type Result struct {
	Delta  geom.Point // adjustment to add to the object position
	Bounds geom.Rect  // moving bounds after the adjustment
	Guides Guides
}

// Snapped reports whether any adjustment was made.
func (r Result) Snapped() bool {
	return r.Delta.X != 0 || r.Delta.Y != 0
}

// axis is a 1-D projection of a box: leading edge, extent.
type axis struct{ lo, size float64 }

func (a axis) hi() float64  { return a.lo + a.size }
func (a axis) mid() float64 { return a.lo + a.size/2 }

func (a axis) points() [3]float64 {
	return [3]float64{a.lo, a.hi(), a.mid()}
}

// Snap evaluates the moving bounds against the grid and the target bounds.
// Callers pass only targets that should attract: visible objects other
// than the one being dragged.
func Snap(moving geom.Rect, targets []geom.Rect, cfg Config) Result {
	xs := make([]axis, len(targets))
	ys := make([]axis, len(targets))
	for i, t := range targets {
		xs[i] = axis{t.X, t.W}
		ys[i] = axis{t.Y, t.H}
	}

	dx := best(axis{moving.X, moving.W}, xs, cfg)
	dy := best(axis{moving.Y, moving.H}, ys, cfg)
	out := moving.Translate(dx, dy)

	res := Result{Delta: geom.Pt(dx, dy), Bounds: out}
	if cfg.Objects {
		res.Guides.X = aligned(axis{out.X, out.W}, xs)
		res.Guides.Y = aligned(axis{out.Y, out.H}, ys)
	}
	return res
}

// best returns the winning delta along one axis, or 0.
func best(m axis, targets []axis, cfg Config) float64 {
	delta, found := 0.0, false
	consider := func(d float64) {
		if math.Abs(d) >= cfg.Threshold {
			return
		}
		if !found || math.Abs(d) < math.Abs(delta) {
			delta, found = d, true
		}
	}

	if cfg.Grid && cfg.GridSize > 0 {
		for _, v := range m.points() {
			consider(math.Round(v/cfg.GridSize)*cfg.GridSize - v)
		}
	}
	if cfg.Objects {
		for _, t := range targets {
			for _, r := range relations(m, t) {
				consider(r[1] - r[0])
			}
		}
	}
	return delta
}

// relations returns (moving, target) coordinate pairs that may be aligned.
func relations(m, t axis) [5][2]float64 {
	return [5][2]float64{
		{m.lo, t.lo},
		{m.hi(), t.hi()},
		{m.mid(), t.mid()},
		{m.lo, t.hi()},
		{m.hi(), t.lo},
	}
}

// aligned returns the sorted, distinct target coordinates that m lines up
// with, allowing for float noise.
func aligned(m axis, targets []axis) []float64 {
	var out []float64
	for _, t := range targets {
		for _, r := range relations(m, t) {
			if math.Abs(r[1]-r[0]) <= 1e-6 && !slices.Contains(out, r[1]) {
				out = append(out, r[1])
			}
		}
	}
	slices.Sort(out)
	return out
}
