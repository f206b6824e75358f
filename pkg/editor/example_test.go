package editor_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/artboard/pkg/editor"
	"github.com/matzehuels/artboard/pkg/geom"
	"github.com/matzehuels/artboard/pkg/viewport"
)

func Example() {
	e := editor.New(editor.Options{Logger: log.New(io.Discard)})
	defer e.Close()

	e.SetTool(editor.ToolRectangle)
	e.PointerDown(editor.Pointer{At: geom.Pt(40, 40), Button: viewport.ButtonPrimary})

	for _, l := range e.Layers() {
		fmt.Println(l.Name, l.Selected)
	}
	undo, redo := e.HistoryCounts()
	fmt.Println("undo", undo, "redo", redo)
	// Output:
	// Rectangle true
	// undo 1 redo 0
}
