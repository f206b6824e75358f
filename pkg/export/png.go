package export

import (
	"bytes"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/scene"
)

// maxPNGPixels bounds the canvas size of a PNG export.
const maxPNGPixels = 64 << 20

var placeholderFill = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}

// RenderPNG rasterizes the visible objects. The image is frame size times
// the scale option, rounded up.
func RenderPNG(s *scene.Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	marks, frame := collect(s, o.padding)

	w := int(math.Ceil(frame.W * o.scale))
	h := int(math.Ceil(frame.H * o.scale))
	if w <= 0 || h <= 0 || w*h > maxPNGPixels {
		return nil, errorf("png size %dx%d out of range", w, h)
	}

	dc := gg.NewContext(w, h)
	bg, ok := parseColor(o.background)
	if !ok {
		bg = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	dc.SetColor(bg)
	dc.Clear()

	dc.Scale(o.scale, o.scale)
	dc.Translate(-frame.X, -frame.Y)

	faces := newFaceCache()
	for _, m := range marks {
		if err := drawPNGMark(dc, faces, m.obj); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errorf("encode png: %v", err)
	}
	return buf.Bytes(), nil
}

func drawPNGMark(dc *gg.Context, faces *faceCache, obj *scene.Object) error {
	dc.Push()
	defer dc.Pop()
	dc.Translate(obj.X, obj.Y)
	dc.Rotate(gg.Radians(obj.Angle))
	dc.Scale(obj.ScaleX, obj.ScaleY)

	switch sh := obj.Shape.(type) {
	case scene.Text:
		face, err := faces.get(sh.FontFamily, sh.FontSize)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		fill, ok := parseColor(obj.Fill)
		if !ok {
			return nil
		}
		dc.SetColor(withOpacity(fill, obj.Opacity))
		lh := sh.FontSize * scene.TextLineHeight
		y := sh.FontSize
		for _, para := range textLines(sh) {
			lines := []string{para}
			if sh.Width > 0 && para != "" {
				lines = dc.WordWrap(para, sh.Width)
			}
			for _, line := range lines {
				dc.DrawString(line, 0, y)
				y += lh
			}
		}
	case scene.Rect:
		dc.DrawRectangle(0, 0, sh.Width, sh.Height)
		fillStroke(dc, obj)
	case scene.Circle:
		dc.DrawCircle(sh.Radius, sh.Radius, sh.Radius)
		fillStroke(dc, obj)
	case scene.Line:
		dc.DrawLine(0, 0, sh.EndX, sh.EndY)
		if c, ok := parseColor(obj.Stroke); ok && obj.StrokeWidth > 0 {
			dc.SetColor(withOpacity(c, obj.Opacity))
			dc.SetLineWidth(obj.StrokeWidth)
			dc.Stroke()
		}
		dc.ClearPath()
	case scene.Image:
		dc.DrawRectangle(0, 0, sh.Width, sh.Height)
		dc.SetColor(withOpacity(placeholderFill, obj.Opacity))
		dc.Fill()
	case scene.Group:
	}
	return nil
}

func fillStroke(dc *gg.Context, obj *scene.Object) {
	if c, ok := parseColor(obj.Fill); ok {
		dc.SetColor(withOpacity(c, obj.Opacity))
		dc.FillPreserve()
	}
	if c, ok := parseColor(obj.Stroke); ok && obj.StrokeWidth > 0 {
		dc.SetColor(withOpacity(c, obj.Opacity))
		dc.SetLineWidth(obj.StrokeWidth)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

// faceCache parses each bundled font once per render and keeps one face
// per size.
type faceCache struct {
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	family string
	size   float64
}

func newFaceCache() *faceCache {
	return &faceCache{fonts: map[string]*truetype.Font{}, faces: map[faceKey]font.Face{}}
}

func (c *faceCache) get(family string, size float64) (font.Face, error) {
	ttf := fontData(family)
	key := faceKey{family: fontName(family), size: geom.Clamp(size, 1, 512)}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	parsed, ok := c.fonts[key.family]
	if !ok {
		var err error
		if parsed, err = truetype.Parse(ttf); err != nil {
			return nil, errorf("parse font: %v", err)
		}
		c.fonts[key.family] = parsed
	}
	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = face
	return face, nil
}

// fontName maps a CSS font family onto one of the bundled Go fonts.
func fontName(family string) string {
	switch family {
	case "Courier", "Courier New", "monospace", "Monaco", "Consolas":
		return "mono"
	case "Impact", "Arial Black":
		return "bold"
	default:
		return "regular"
	}
}

func fontData(family string) []byte {
	switch fontName(family) {
	case "mono":
		return gomono.TTF
	case "bold":
		return gobold.TTF
	default:
		return goregular.TTF
	}
}
