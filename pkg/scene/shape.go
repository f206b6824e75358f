package scene

import (
	"slices"
	"strings"

	"github.com/matzehuels/artboard/pkg/geom"
)

// Kind identifies the shape payload of an object.
type Kind string

// Object kinds.
const (
	KindText      Kind = "text"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindImage     Kind = "image"
	KindGroup     Kind = "group"
)

// TextLineHeight is the line height multiplier applied to a text's font size.
const TextLineHeight = 1.16

// Shape is the kind-specific payload of an [Object].
// The interface is sealed; the set of implementations is fixed.
type Shape interface {
	Kind() Kind
	// Extent returns the unscaled, unrotated local box of the shape with the
	// object's position at the origin. Groups have no local extent.
	Extent() geom.Rect
	clone() Shape
}

// Text is a wrapped text box.
type Text struct {
	Text       string
	FontSize   float64
	FontFamily string
	Width      float64
}

// Rect is an axis-aligned rectangle before transformation.
type Rect struct {
	Width  float64
	Height float64
}

// Circle is a circle whose bounding box starts at the object position.
type Circle struct {
	Radius float64
}

// Line is a straight segment from the object position to the endpoint,
// given as an offset from the position.
type Line struct {
	EndX float64
	EndY float64
}

// Image is a bitmap referenced by URL; Width and Height are the natural
// dimensions reported by the asset loader.
type Image struct {
	Src    string
	Width  float64
	Height float64
}

// Group owns an ordered list of child ids, back-most first.
type Group struct {
	Children []string
}

func (Text) Kind() Kind   { return KindText }
func (Rect) Kind() Kind   { return KindRectangle }
func (Circle) Kind() Kind { return KindCircle }
func (Line) Kind() Kind   { return KindLine }
func (Image) Kind() Kind  { return KindImage }
func (Group) Kind() Kind  { return KindGroup }

// Lines returns the number of rendered lines (at least one).
func (t Text) Lines() int {
	return strings.Count(t.Text, "\n") + 1
}

func (t Text) Extent() geom.Rect {
	return geom.Rect{W: t.Width, H: t.FontSize * TextLineHeight * float64(t.Lines())}
}
func (r Rect) Extent() geom.Rect   { return geom.Rect{W: r.Width, H: r.Height} }
func (c Circle) Extent() geom.Rect { return geom.Rect{W: 2 * c.Radius, H: 2 * c.Radius} }
func (l Line) Extent() geom.Rect   { return geom.FromPoints(geom.Pt(0, 0), geom.Pt(l.EndX, l.EndY)) }
func (i Image) Extent() geom.Rect  { return geom.Rect{W: i.Width, H: i.Height} }
func (Group) Extent() geom.Rect    { return geom.Rect{} }

func (t Text) clone() Shape   { return t }
func (r Rect) clone() Shape   { return r }
func (c Circle) clone() Shape { return c }
func (l Line) clone() Shape   { return l }
func (i Image) clone() Shape  { return i }
func (g Group) clone() Shape  { return Group{Children: slices.Clone(g.Children)} }
