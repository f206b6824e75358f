package export_test

import (
	"fmt"

	"github.com/matzehuels/artboard/pkg/export"
	"github.com/matzehuels/artboard/pkg/scene"
)

func ExampleRenderSVG() {
	s := scene.New()
	r := scene.NewRect(10, 10)
	r.ID = "r"
	s.Add(r)

	fmt.Print(string(export.RenderSVG(s, export.WithPadding(10))))
	// Output:
	// <svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120 80" width="120" height="80">
	//   <g id="r" transform="matrix(1 0 0 1 10 10)"><rect width="100" height="60" fill="#ff0000" stroke="#000000" stroke-width="1"/></g>
	// </svg>
}
