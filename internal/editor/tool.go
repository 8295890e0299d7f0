package editor

import "drawboard/internal/scene"

type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolRect
	ToolCircle
	ToolTriangle
	ToolDiamond
	ToolStar
	ToolHexagon
	ToolText
	ToolConnector
	ToolDraw
	ToolErase
	ToolMind
	ToolNote
)

var toolNames = [...]string{
	ToolSelect:    "select",
	ToolPan:       "pan",
	ToolRect:      "rect",
	ToolCircle:    "circle",
	ToolTriangle:  "triangle",
	ToolDiamond:   "diamond",
	ToolStar:      "star",
	ToolHexagon:   "hexagon",
	ToolText:      "text",
	ToolConnector: "connector",
	ToolDraw:      "draw",
	ToolErase:     "erase",
	ToolMind:      "mind",
	ToolNote:      "note",
}

// Keyboard shortcuts for switching tools.
var toolKeys = map[string]Tool{
	"v": ToolSelect,
	"h": ToolPan,
	"r": ToolRect,
	"c": ToolCircle,
	"g": ToolTriangle,
	"d": ToolDiamond,
	"s": ToolStar,
	"x": ToolHexagon,
	"t": ToolText,
	"a": ToolConnector,
	"p": ToolDraw,
	"e": ToolErase,
	"m": ToolMind,
	"n": ToolNote,
}

var shapeTools = map[Tool]scene.ShapeKind{
	ToolRect:     scene.ShapeRect,
	ToolCircle:   scene.ShapeCircle,
	ToolTriangle: scene.ShapeTriangle,
	ToolDiamond:  scene.ShapeDiamond,
	ToolStar:     scene.ShapeStar,
	ToolHexagon:  scene.ShapeHexagon,
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool looks a tool up by its name.
func ParseTool(name string) (Tool, bool) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return ToolSelect, false
}

// ToolForKey returns the tool bound to a shortcut key.
func ToolForKey(key string) (Tool, bool) {
	t, ok := toolKeys[key]
	return t, ok
}

// KeyFor returns the shortcut key of t.
func KeyFor(t Tool) string {
	for k, kt := range toolKeys {
		if kt == t {
			return k
		}
	}
	return ""
}

// ShapeKind returns the shape created by a rubber-band tool.
func (t Tool) ShapeKind() (scene.ShapeKind, bool) {
	k, ok := shapeTools[t]
	return k, ok
}

// Cursor is the pointer hint shown while t is active.
func (t Tool) Cursor() string {
	switch t {
	case ToolPan:
		return "grab"
	case ToolText:
		return "text"
	case ToolErase:
		return "not-allowed"
	case ToolSelect:
		return "default"
	default:
		return "crosshair"
	}
}
