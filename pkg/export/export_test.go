package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/scene"
)

func add(t *testing.T, s *scene.Scene, o *scene.Object, id string) {
	t.Helper()
	o.ID = id
	if _, err := s.Add(o); err != nil {
		t.Fatal(err)
	}
}

func rectScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()
	add(t, s, scene.NewRect(10, 10), "r")
	return s
}

func richScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := rectScene(t)
	add(t, s, scene.NewText(200, 0), "t")
	add(t, s, scene.NewCircle(0, 100), "c")
	add(t, s, scene.NewLine(0, 250), "l")
	add(t, s, scene.NewImage("https://example.com/a.png", 300, 200, 40, 30), "i")
	hidden := true
	if err := s.Update("c", scene.Patch{Hidden: &hidden}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Compose(&scene.Object{ID: "g", Name: "Pair"}, []string{"l", "i"}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !apperr.Is(err, apperr.ErrCodeUnsupported) {
		t.Errorf("ParseFormat(gif) error = %v", err)
	}
	if FormatTree.Ext() != ".tree.svg" || FormatPNG.Ext() != ".png" {
		t.Error("unexpected extensions")
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(richScene(t), WithBackground("#ffffff")))

	for _, want := range []string{
		`<g id="r" transform="matrix(1 0 0 1 10 10)"><rect width="100" height="60" fill="#ff0000" stroke="#000000" stroke-width="1"/></g>`,
		`<tspan x="0" y="20">Edit Text</tspan>`,
		`<line x1="0" y1="0" x2="100" y2="0" fill="none" stroke="#000000" stroke-width="2"/>`,
		`<image href="https://example.com/a.png" width="40" height="30"/>`,
		`fill="#ffffff"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}
	if strings.Contains(svg, `id="c"`) {
		t.Error("hidden circle rendered")
	}
	if strings.Contains(svg, `id="g"`) {
		t.Error("group rendered as its own element")
	}
}

func TestSVGEscapesText(t *testing.T) {
	s := scene.New()
	txt := scene.NewText(0, 0)
	txt.Shape = scene.Text{Text: "a < b & c", FontSize: 10, FontFamily: "Arial", Width: 100}
	add(t, s, txt, "t")
	if svg := string(RenderSVG(s)); !strings.Contains(svg, "a &lt; b &amp; c") {
		t.Errorf("text not escaped: %s", svg)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(rectScene(t), WithScale(2), WithPadding(10))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	// Frame is (0,0)-(120,80) in document units.
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 160 {
		t.Fatalf("size = %v, want 240x160", b)
	}
	if got := color.NRGBAModel.Convert(img.At(120, 80)).(color.NRGBA); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("rect center = %v, want red", got)
	}
	if got := color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("corner = %v, want white background", got)
	}
}

func TestRenderPNGAllKinds(t *testing.T) {
	data, err := RenderPNG(richScene(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(richScene(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 8)])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := richScene(t)
	data, err := RenderJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	st, err := ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != 4 {
		t.Errorf("top-level objects = %d, want 4", st.Len())
	}
	if _, ok := st.Objects["c"]; !ok {
		t.Error("hidden object dropped from JSON export")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(richScene(t))
	for _, want := range []string{
		`"canvas" -> "r";`,
		`"canvas" -> "g";`,
		`"g" -> "l";`,
		`"g" -> "i";`,
		`style="rounded,filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %s", want)
		}
	}
	if strings.Contains(dot, `"canvas" -> "l"`) {
		t.Error("child attached to the canvas root")
	}
}

func TestRenderDispatch(t *testing.T) {
	s := rectScene(t)
	ctx := context.Background()
	for _, f := range []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT} {
		data, err := Render(ctx, s, f)
		if err != nil || len(data) == 0 {
			t.Errorf("Render(%s) = %d bytes, %v", f, len(data), err)
		}
	}
	if _, err := Render(ctx, s, Format("bmp")); err == nil {
		t.Error("Render(bmp) succeeded")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}, true},
		{"#0F0", color.NRGBA{G: 255, A: 255}, true},
		{"#00000080", color.NRGBA{A: 128}, true},
		{"transparent", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
		{"#zzzzzz", color.NRGBA{}, false},
		{"red", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseColor(%q) = %v, %v", tt.in, got, ok)
		}
	}
}
