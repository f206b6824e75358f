package geom

import "math"

// Matrix is a 2D affine transform stored as [a b c d e f].
// It maps (x, y) to (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Identity is the identity transform.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Rotate returns a rotation matrix for deg degrees (clockwise on screen).
func Rotate(deg float64) Matrix {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m·n: n is applied first, then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Apply transforms p.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < Epsilon {
		return Matrix{}, false
	}
	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, true
}

// TransformRect returns the axis-aligned bounds of r after transformation.
func (m Matrix) TransformRect(r Rect) Rect {
	return FromPoints(
		m.Apply(Point{r.X, r.Y}),
		m.Apply(Point{r.Right(), r.Y}),
		m.Apply(Point{r.Right(), r.Bottom()}),
		m.Apply(Point{r.X, r.Bottom()}),
	)
}

// Decompose splits m into translate·rotate·scale, the order object
// transforms are built in. ok is false when m skews or collapses an axis,
// which that form cannot express.
func (m Matrix) Decompose() (tx, ty, deg, sx, sy float64, ok bool) {
	sx = math.Hypot(m[0], m[1])
	col2 := math.Hypot(m[2], m[3])
	if sx < Epsilon || col2 < Epsilon {
		return 0, 0, 0, 0, 0, false
	}
	if math.Abs(m[0]*m[2]+m[1]*m[3]) > 1e-9*sx*col2 {
		return 0, 0, 0, 0, 0, false
	}
	sy = (m[0]*m[3] - m[1]*m[2]) / sx
	deg = math.Atan2(m[1], m[0]) * 180 / math.Pi
	return m[4], m[5], deg, sx, sy, true
}
