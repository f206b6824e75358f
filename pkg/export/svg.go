package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/artboard/pkg/scene"
)

// RenderSVG renders the visible objects as an SVG document.
func RenderSVG(s *scene.Scene, opts ...Option) []byte {
	o := newOptions(opts)
	marks, frame := collect(s, o.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		fmtFloat(frame.X), fmtFloat(frame.Y), fmtFloat(frame.W), fmtFloat(frame.H), frame.W, frame.H)
	if _, ok := parseColor(o.background); ok {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			fmtFloat(frame.X), fmtFloat(frame.Y), fmtFloat(frame.W), fmtFloat(frame.H), escape(o.background))
	}
	for _, m := range marks {
		writeSVGMark(&buf, m.obj)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeSVGMark(buf *bytes.Buffer, obj *scene.Object) {
	m := obj.Local()
	fmt.Fprintf(buf, `  <g id="%s" transform="matrix(%s %s %s %s %s %s)"`,
		escape(obj.ID), fmtFloat(m[0]), fmtFloat(m[1]), fmtFloat(m[2]), fmtFloat(m[3]), fmtFloat(m[4]), fmtFloat(m[5]))
	if obj.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, fmtFloat(obj.Opacity))
	}
	buf.WriteString(">")

	switch sh := obj.Shape.(type) {
	case scene.Text:
		fmt.Fprintf(buf, `<text font-size="%s" font-family="%s"%s>`,
			fmtFloat(sh.FontSize), escape(sh.FontFamily), paint(obj.Fill, "", 0))
		lh := sh.FontSize * scene.TextLineHeight
		for i, line := range textLines(sh) {
			fmt.Fprintf(buf, `<tspan x="0" y="%s">%s</tspan>`, fmtFloat(sh.FontSize+float64(i)*lh), escape(line))
		}
		buf.WriteString("</text>")
	case scene.Rect:
		fmt.Fprintf(buf, `<rect width="%s" height="%s"%s/>`,
			fmtFloat(sh.Width), fmtFloat(sh.Height), paint(obj.Fill, obj.Stroke, obj.StrokeWidth))
	case scene.Circle:
		fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s"%s/>`,
			fmtFloat(sh.Radius), fmtFloat(sh.Radius), fmtFloat(sh.Radius), paint(obj.Fill, obj.Stroke, obj.StrokeWidth))
	case scene.Line:
		fmt.Fprintf(buf, `<line x1="0" y1="0" x2="%s" y2="%s"%s/>`,
			fmtFloat(sh.EndX), fmtFloat(sh.EndY), paint("", obj.Stroke, obj.StrokeWidth))
	case scene.Image:
		fmt.Fprintf(buf, `<image href="%s" width="%s" height="%s"/>`,
			escape(sh.Src), fmtFloat(sh.Width), fmtFloat(sh.Height))
	case scene.Group:
	}
	buf.WriteString("</g>\n")
}

// paint renders fill and stroke attributes. An unset fill is "none".
func paint(fill, stroke string, width float64) string {
	var b strings.Builder
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(&b, ` fill="%s"`, escape(fill))
	if stroke != "" && width > 0 {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, escape(stroke), fmtFloat(width))
	}
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
