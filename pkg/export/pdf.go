package export

import (
	"bytes"
	"image/color"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/artboard/pkg/scene"
)

// RenderPDF renders the visible objects onto a single page sized to the
// frame, in points.
func RenderPDF(s *scene.Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	marks, frame := collect(s, o.padding)
	if frame.W <= 0 || frame.H <= 0 {
		return nil, errorf("empty pdf frame")
	}

	// Portrait keeps Wd/Ht as given; landscape would swap them.
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: frame.W, Ht: frame.H},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	tr := p.UnicodeTranslatorFromDescriptor("")

	if bg, ok := parseColor(o.background); ok {
		setFill(p, bg)
		p.Rect(0, 0, frame.W, frame.H, "F")
	}

	for _, m := range marks {
		drawPDFMark(p, tr, m.obj, m.obj.X-frame.X, m.obj.Y-frame.Y)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, errorf("write pdf: %v", err)
	}
	return buf.Bytes(), nil
}

// drawPDFMark draws obj with its origin at page point (x, y). Rotation is
// negated because gofpdf rotates counter-clockwise.
func drawPDFMark(p *gofpdf.Fpdf, tr func(string) string, obj *scene.Object, x, y float64) {
	p.TransformBegin()
	defer p.TransformEnd()
	if obj.Angle != 0 {
		p.TransformRotate(-obj.Angle, x, y)
	}
	if obj.ScaleX != 1 || obj.ScaleY != 1 {
		p.TransformScale(obj.ScaleX*100, obj.ScaleY*100, x, y)
	}
	p.SetAlpha(obj.Opacity, "Normal")
	defer p.SetAlpha(1, "Normal")

	switch sh := obj.Shape.(type) {
	case scene.Text:
		fill, ok := parseColor(obj.Fill)
		if !ok {
			return
		}
		p.SetTextColor(int(fill.R), int(fill.G), int(fill.B))
		p.SetFont(pdfFont(sh.FontFamily), "", sh.FontSize)
		lh := sh.FontSize * scene.TextLineHeight
		ly := y + sh.FontSize
		for _, para := range textLines(sh) {
			lines := []string{para}
			if sh.Width > 0 && para != "" {
				lines = lines[:0]
				for _, l := range p.SplitLines([]byte(tr(para)), sh.Width) {
					lines = append(lines, string(l))
				}
			} else {
				lines[0] = tr(para)
			}
			for _, line := range lines {
				p.Text(x, ly, line)
				ly += lh
			}
		}
	case scene.Rect:
		if style := pdfStyle(p, obj); style != "" {
			p.Rect(x, y, sh.Width, sh.Height, style)
		}
	case scene.Circle:
		if style := pdfStyle(p, obj); style != "" {
			p.Circle(x+sh.Radius, y+sh.Radius, sh.Radius, style)
		}
	case scene.Line:
		if c, ok := parseColor(obj.Stroke); ok && obj.StrokeWidth > 0 {
			setDraw(p, c)
			p.SetLineWidth(obj.StrokeWidth)
			p.Line(x, y, x+sh.EndX, y+sh.EndY)
		}
	case scene.Image:
		setFill(p, placeholderFill)
		p.Rect(x, y, sh.Width, sh.Height, "F")
	case scene.Group:
	}
}

// pdfStyle sets fill and draw colors for obj and returns the gofpdf style
// string, empty when nothing is painted.
func pdfStyle(p *gofpdf.Fpdf, obj *scene.Object) string {
	style := ""
	if c, ok := parseColor(obj.Fill); ok {
		setFill(p, c)
		style += "F"
	}
	if c, ok := parseColor(obj.Stroke); ok && obj.StrokeWidth > 0 {
		setDraw(p, c)
		p.SetLineWidth(obj.StrokeWidth)
		style += "D"
	}
	return style
}

func setFill(p *gofpdf.Fpdf, c color.NRGBA) { p.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func setDraw(p *gofpdf.Fpdf, c color.NRGBA) { p.SetDrawColor(int(c.R), int(c.G), int(c.B)) }

// pdfFont maps a CSS font family onto a PDF core font.
func pdfFont(family string) string {
	switch family {
	case "Times New Roman", "Times", "Georgia", "serif":
		return "Times"
	case "Courier", "Courier New", "monospace", "Monaco", "Consolas":
		return "Courier"
	default:
		return "Helvetica"
	}
}
