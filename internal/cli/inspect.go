package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/artboard/pkg/editor"
	"github.com/matzehuels/artboard/pkg/scene"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <canvas.json>",
		Short: "Print the layer list of a canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readScene(args[0])
			if err != nil {
				return err
			}
			e := editor.New(editor.Options{Logger: log.New(io.Discard)})
			defer e.Close()
			e.LoadState(s.Snapshot())

			layers := e.Layers()
			printKeyValue("Canvas", args[0])
			printSceneStats(layers)
			if len(layers) == 0 {
				return nil
			}
			printNewline()
			fmt.Println(layerTable(e.Scene(), layers))
			return nil
		},
	}
}

// layerTable renders layers front-most last, children indented under
// their group.
func layerTable(s *scene.Scene, layers []editor.Layer) string {
	rows := make([][]string, 0, len(layers))
	for _, l := range layers {
		bounds := "—"
		if b, err := s.Bounds(l.ID); err == nil {
			bounds = fmt.Sprintf("%.0f,%.0f %.0f×%.0f", b.X, b.Y, b.W, b.H)
		}
		flags := ""
		if !l.Visible {
			flags += "hidden "
		}
		if l.Locked {
			flags += "locked"
		}
		rows = append(rows, []string{
			strings.Repeat("  ", l.Depth) + l.Name,
			string(l.Kind),
			bounds,
			strings.TrimSpace(flags),
			l.ID,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "Kind", "Bounds", "Flags", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case !layers[row].Visible || col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
