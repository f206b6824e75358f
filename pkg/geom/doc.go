// Package geom provides the 2D geometry primitives shared by the editor core.
//
// # Types
//
//   - [Point]: a position or offset in document or screen space
//   - [Rect]: an axis-aligned box (X, Y is the top-left corner)
//   - [Matrix]: a 2D affine transform in the canvas convention
//     [a b c d e f], mapping (x, y) to (a*x + c*y + e, b*x + d*y + f)
//
// All coordinates are float64 pixels. The y axis points down, matching the
// screen and every export format the editor produces.
//
// # Usage
//
//	r := geom.Union(a.Bounds, b.Bounds)
//	m := geom.Translate(10, 20).Multiply(geom.Rotate(45))
//	box := m.TransformRect(geom.Rect{W: 100, H: 60})
package geom
