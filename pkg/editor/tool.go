package editor

import (
	"strings"

	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/scene"
)

// Tool is the active pointer tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolText      Tool = "text"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolLine      Tool = "line"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolText, ToolRectangle, ToolCircle, ToolLine}

// ParseTool converts a tool name to a Tool.
func ParseTool(s string) (Tool, error) {
	t := Tool(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tools {
		if t == known {
			return t, nil
		}
	}
	return "", apperr.New(apperr.ErrCodeInvalidInput, "unknown tool %q", s)
}

// create returns a new object for a creation tool, or nil for select.
func (t Tool) create(x, y float64) *scene.Object {
	switch t {
	case ToolText:
		return scene.NewText(x, y)
	case ToolRectangle:
		return scene.NewRect(x, y)
	case ToolCircle:
		return scene.NewCircle(x, y)
	case ToolLine:
		return scene.NewLine(x, y)
	}
	return nil
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool activates t. Switching tools cancels an in-progress drag.
func (e *Editor) SetTool(t Tool) {
	e.cancelDrag()
	e.tool = t
	e.changed()
}
