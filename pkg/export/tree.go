package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/artboard/pkg/scene"
)

const treeRoot = "canvas"

// ToDOT describes the object hierarchy as a Graphviz digraph. Top-level
// objects hang off a "canvas" root in z-order; hidden objects are dashed and
// locked objects are grey.
func ToDOT(s *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n", treeRoot, fmt.Sprintf("canvas (%d)", s.Len()))
	buf.WriteString("\n")

	var edges []string
	_ = s.Walk(func(n scene.Node) error {
		o := n.Object
		label := fmt.Sprintf("%s\n%s", o.Name, o.Kind())
		attrs := []string{fmt.Sprintf("label=%q", label)}
		switch {
		case o.Hidden:
			attrs = append(attrs, `style="rounded,filled,dashed"`)
		case o.Locked:
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", o.ID, strings.Join(attrs, ", "))

		parent := o.Parent
		if parent == "" {
			parent = treeRoot
		}
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, o.ID))
		return nil
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderTreeSVG renders a DOT graph to SVG using Graphviz.
func RenderTreeSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
