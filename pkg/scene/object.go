package scene

import "github.com/matzehuels/artboard/pkg/geom"

// Object is a node on the canvas.
//
// Positions are absolute document coordinates, including for group
// children. Opacity ranges from 0 (transparent) to 1 (opaque).
type Object struct {
	ID          string
	Name        string
	X, Y        float64
	ScaleX      float64
	ScaleY      float64
	Angle       float64 // degrees, clockwise, around (X, Y)
	Opacity     float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Hidden      bool
	Locked      bool
	Parent      string // owning group id, empty for top-level objects
	Shape       Shape
}

// Kind returns the kind of the object's shape.
func (o *Object) Kind() Kind {
	if o.Shape == nil {
		return ""
	}
	return o.Shape.Kind()
}

// Position returns the object's origin.
func (o *Object) Position() geom.Point {
	return geom.Pt(o.X, o.Y)
}

// Local returns the object's transform: scale, then rotate, then translate.
func (o *Object) Local() geom.Matrix {
	return geom.Translate(o.X, o.Y).
		Multiply(geom.Rotate(o.Angle)).
		Multiply(geom.Scale(o.ScaleX, o.ScaleY))
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	c := *o
	if o.Shape != nil {
		c.Shape = o.Shape.clone()
	}
	return &c
}

func (o *Object) normalize() {
	if o.ScaleX == 0 {
		o.ScaleX = 1
	}
	if o.ScaleY == 0 {
		o.ScaleY = 1
	}
	if o.Name == "" {
		o.Name = DefaultName(o.Kind())
	}
}

// DefaultName returns the layer name given to new objects of kind k.
func DefaultName(k Kind) string {
	switch k {
	case KindText:
		return "Text"
	case KindRectangle:
		return "Rectangle"
	case KindCircle:
		return "Circle"
	case KindLine:
		return "Line"
	case KindImage:
		return "Image"
	case KindGroup:
		return "Group"
	}
	return "Object"
}

// Tool defaults for new objects.
const (
	DefaultText       = "Edit Text"
	DefaultFontSize   = 20
	DefaultFontFamily = "Arial"
	DefaultTextWidth  = 200
	DefaultTextFill   = "#000000"
	DefaultRectWidth  = 100
	DefaultRectHeight = 60
	DefaultRectFill   = "#ff0000"
	DefaultStroke     = "#000000"
	DefaultRadius     = 50
	DefaultCircleFill = "#00ff00"
	DefaultLineLength = 100
	DefaultLineWidth  = 2
)

func base(x, y float64) Object {
	return Object{X: x, Y: y, ScaleX: 1, ScaleY: 1, Opacity: 1}
}

// NewText returns a text object with the default content and font.
func NewText(x, y float64) *Object {
	o := base(x, y)
	o.Fill = DefaultTextFill
	o.Shape = Text{
		Text:       DefaultText,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		Width:      DefaultTextWidth,
	}
	return &o
}

// NewRect returns a rectangle with the default size and colors.
func NewRect(x, y float64) *Object {
	o := base(x, y)
	o.Fill = DefaultRectFill
	o.Stroke = DefaultStroke
	o.StrokeWidth = 1
	o.Shape = Rect{Width: DefaultRectWidth, Height: DefaultRectHeight}
	return &o
}

// NewCircle returns a circle with the default radius and fill.
func NewCircle(x, y float64) *Object {
	o := base(x, y)
	o.Fill = DefaultCircleFill
	o.Stroke = DefaultStroke
	o.StrokeWidth = 1
	o.Shape = Circle{Radius: DefaultRadius}
	return &o
}

// NewLine returns a horizontal line of the default length.
func NewLine(x, y float64) *Object {
	o := base(x, y)
	o.Stroke = DefaultStroke
	o.StrokeWidth = DefaultLineWidth
	o.Shape = Line{EndX: DefaultLineLength}
	return &o
}

// NewImage returns an image object of natural size w×h.
func NewImage(src string, x, y, w, h float64) *Object {
	o := base(x, y)
	o.Shape = Image{Src: src, Width: w, Height: h}
	return &o
}

// Patch is a partial update. Nil fields are left unchanged.
//
// Shape, when set, must have the same kind as the target and cannot be a
// [Group]; group membership changes go through [Scene.Compose] and
// [Scene.Decompose].
type Patch struct {
	Name        *string
	X, Y        *float64
	ScaleX      *float64
	ScaleY      *float64
	Angle       *float64
	Opacity     *float64
	Fill        *string
	Stroke      *string
	StrokeWidth *float64
	Hidden      *bool
	Locked      *bool
	Shape       Shape
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

func (p Patch) transforms() bool {
	return p.X != nil || p.Y != nil || p.ScaleX != nil || p.ScaleY != nil || p.Angle != nil
}

func (p Patch) apply(o *Object) {
	setString(&o.Name, p.Name)
	setFloat(&o.X, p.X)
	setFloat(&o.Y, p.Y)
	setFloat(&o.ScaleX, p.ScaleX)
	setFloat(&o.ScaleY, p.ScaleY)
	setFloat(&o.Angle, p.Angle)
	setFloat(&o.Opacity, p.Opacity)
	setString(&o.Fill, p.Fill)
	setString(&o.Stroke, p.Stroke)
	setFloat(&o.StrokeWidth, p.StrokeWidth)
	if p.Hidden != nil {
		o.Hidden = *p.Hidden
	}
	if p.Locked != nil {
		o.Locked = *p.Locked
	}
	if p.Shape != nil {
		o.Shape = p.Shape.clone()
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
