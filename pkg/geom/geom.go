package geom

import "math"

// Epsilon is the tolerance used for float comparisons across the editor.
const Epsilon = 1e-9

// Point is a 2D position or offset.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Eq compares two points within eps.
func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

func (r Rect) Left() float64    { return r.X }
func (r Rect) Top() float64     { return r.Y }
func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) Bottom() float64  { return r.Y + r.H }
func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }
func (r Rect) Center() Point    { return Point{r.CenterX(), r.CenterY()} }
func (r Rect) Min() Point       { return Point{r.X, r.Y} }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Eq compares two rects within eps.
func (r Rect) Eq(o Rect, eps float64) bool {
	return math.Abs(r.X-o.X) <= eps && math.Abs(r.Y-o.Y) <= eps &&
		math.Abs(r.W-o.W) <= eps && math.Abs(r.H-o.H) <= eps
}

// Union returns the smallest rect enclosing all of rs.
// The zero Rect is returned when rs is empty.
func Union(rs ...Rect) Rect {
	if len(rs) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rs {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// FromPoints returns the bounding rect of the given points.
func FromPoints(ps ...Point) Rect {
	if len(ps) == 0 {
		return Rect{}
	}
	minX, minY := ps[0].X, ps[0].Y
	maxX, maxY := minX, minY
	for _, p := range ps[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
