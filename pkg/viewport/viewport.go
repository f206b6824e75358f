// Package viewport maps between document and screen coordinates for a
// zoomable, pannable canvas view.
//
// A point in document space maps to the screen as
//
//	screen = doc*zoom + pan
//
// Zoom is always clamped to [MinZoom, MaxZoom].
package viewport

import (
	"math"

	"github.com/matzehuels/artboard/pkg/geom"
)

const (
	MinZoom = 0.1
	MaxZoom = 10

	// WheelBase is raised to the wheel delta to get the zoom factor.
	WheelBase = 0.999
	// ZoomStep is the factor applied by ZoomIn and ZoomOut.
	ZoomStep = 1.2
	// FitPadding is the share of the viewport filled by ZoomToFit.
	FitPadding = 0.9
)

// Viewport holds the zoom and pan of a canvas view.
// The zero value is not usable; call New.
type Viewport struct {
	zoom   float64
	pan    geom.Point
	width  float64
	height float64
}

// New returns a viewport of the given screen size at zoom 1 and no pan.
func New(width, height float64) *Viewport {
	return &Viewport{zoom: 1, width: width, height: height}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current screen offset.
func (v *Viewport) Pan() geom.Point { return v.pan }

// Size returns the screen size.
func (v *Viewport) Size() (w, h float64) { return v.width, v.height }

// Resize updates the screen size.
func (v *Viewport) Resize(width, height float64) {
	v.width, v.height = width, height
}

// SetZoom clamps z and applies it without changing the pan.
func (v *Viewport) SetZoom(z float64) {
	v.zoom = clampZoom(z)
}

// SetPan sets the absolute screen offset.
func (v *Viewport) SetPan(p geom.Point) {
	v.pan = p
}

// ZoomToPoint changes the zoom while keeping the document point under
// screen point p fixed on screen.
func (v *Viewport) ZoomToPoint(p geom.Point, z float64) {
	z = clampZoom(z)
	ratio := z / v.zoom
	v.pan = p.Sub(p.Sub(v.pan).Scale(ratio))
	v.zoom = z
}

// Wheel applies a mouse wheel delta at the pointer position.
func (v *Viewport) Wheel(deltaY float64, at geom.Point) {
	v.ZoomToPoint(at, v.zoom*math.Pow(WheelBase, deltaY))
}

// ZoomIn zooms in by ZoomStep around the viewport center.
func (v *Viewport) ZoomIn() {
	v.ZoomToPoint(v.center(), v.zoom*ZoomStep)
}

// ZoomOut zooms out by ZoomStep around the viewport center.
func (v *Viewport) ZoomOut() {
	v.ZoomToPoint(v.center(), v.zoom/ZoomStep)
}

// Translate moves the view by a screen-space delta.
func (v *Viewport) Translate(dx, dy float64) {
	v.pan = v.pan.Add(geom.Pt(dx, dy))
}

// Reset returns to zoom 1 and no pan.
func (v *Viewport) Reset() {
	v.zoom = 1
	v.pan = geom.Point{}
}

// ZoomToFit zooms and pans so the union of rects fills FitPadding of the
// viewport, centered. With no rects the view is reset. The zoom never
// exceeds MaxZoom and never drops below MinZoom, so very large content may
// not fit entirely.
func (v *Viewport) ZoomToFit(rects []geom.Rect) {
	if len(rects) == 0 {
		v.Reset()
		return
	}
	content := geom.Union(rects...)
	z := math.Min(fitAxis(v.width, content.W), fitAxis(v.height, content.H))
	v.zoom = clampZoom(math.Min(z, MaxZoom))
	c := content.Center()
	v.pan = geom.Pt(v.width/2-c.X*v.zoom, v.height/2-c.Y*v.zoom)
}

func fitAxis(screen, content float64) float64 {
	if content <= 0 {
		return math.Inf(1)
	}
	return screen * FitPadding / content
}

// ToScreen maps a document point to screen coordinates.
func (v *Viewport) ToScreen(p geom.Point) geom.Point {
	return p.Scale(v.zoom).Add(v.pan)
}

// ToDocument maps a screen point to document coordinates.
func (v *Viewport) ToDocument(p geom.Point) geom.Point {
	return p.Sub(v.pan).Scale(1 / v.zoom)
}

// Matrix returns the document-to-screen transform.
func (v *Viewport) Matrix() geom.Matrix {
	return geom.Translate(v.pan.X, v.pan.Y).Multiply(geom.Scale(v.zoom, v.zoom))
}

// Visible returns the document-space rect currently shown on screen.
func (v *Viewport) Visible() geom.Rect {
	tl := v.ToDocument(geom.Point{})
	return geom.Rect{X: tl.X, Y: tl.Y, W: v.width / v.zoom, H: v.height / v.zoom}
}

func (v *Viewport) center() geom.Point {
	return geom.Pt(v.width/2, v.height/2)
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return geom.Clamp(z, MinZoom, MaxZoom)
}
