package export

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/scene"
)

// Format names an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatTree Format = "tree"
)

// Formats lists the supported formats.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT, FormatTree}

// ParseFormat returns the format named s, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", apperr.New(apperr.ErrCodeUnsupported, "unsupported export format %q", s)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	if f == FormatTree {
		return ".tree.svg"
	}
	return "." + string(f)
}

// DefaultPadding surrounds the content in every output frame.
const DefaultPadding = 20.0

// Option configures rendering.
type Option func(*options)

type options struct {
	padding    float64
	background string
	scale      float64
}

// WithPadding sets the margin around the content in document units.
func WithPadding(p float64) Option { return func(o *options) { o.padding = max(p, 0) } }

// WithBackground fills the frame with a hex color. SVG output is
// transparent unless a background is set; PNG and PDF default to white.
func WithBackground(hex string) Option { return func(o *options) { o.background = hex } }

// WithScale sets the PNG pixel density multiplier (default 1).
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

func newOptions(opts []Option) options {
	o := options{padding: DefaultPadding, scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render produces the given format. Tree rendering needs ctx for the
// Graphviz runtime; the other formats ignore it.
func Render(ctx context.Context, s *scene.Scene, f Format, opts ...Option) ([]byte, error) {
	switch f {
	case FormatSVG:
		return RenderSVG(s, opts...), nil
	case FormatPNG:
		return RenderPNG(s, opts...)
	case FormatPDF:
		return RenderPDF(s, opts...)
	case FormatJSON:
		return RenderJSON(s)
	case FormatDOT:
		return []byte(ToDOT(s)), nil
	case FormatTree:
		return RenderTreeSVG(ctx, ToDOT(s))
	default:
		return nil, apperr.New(apperr.ErrCodeUnsupported, "unsupported export format %q", f)
	}
}

// mark is a visible, drawable object.
type mark struct {
	obj    *scene.Object
	bounds geom.Rect
}

// collect returns the drawable objects in paint order and the padded frame.
func collect(s *scene.Scene, padding float64) ([]mark, geom.Rect) {
	var marks []mark
	var rects []geom.Rect
	_ = s.Walk(func(n scene.Node) error {
		if !n.Visible {
			return scene.SkipChildren
		}
		if n.Object.Kind() == scene.KindGroup {
			return nil
		}
		marks = append(marks, mark{obj: n.Object, bounds: n.Bounds})
		rects = append(rects, n.Bounds)
		return nil
	})
	frame := geom.Union(rects...)
	frame = geom.Rect{
		X: frame.X - padding,
		Y: frame.Y - padding,
		W: frame.W + 2*padding,
		H: frame.H + 2*padding,
	}
	return marks, frame
}

// parseColor parses #rgb, #rrggbb and #rrggbbaa. Empty strings, "none" and
// "transparent" report false.
func parseColor(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" || s == "transparent" || !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// withOpacity scales the alpha of c by the object opacity.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A)*geom.Clamp(opacity, 0, 1) + 0.5)
	return c
}

func fmtFloat(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// textLines splits a text object into its rendered lines.
func textLines(t scene.Text) []string {
	return strings.Split(t.Text, "\n")
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("export: "+format, args...)
}
