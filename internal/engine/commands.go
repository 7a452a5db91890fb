package engine

import (
	"encoding/json"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/marker"
	"github.com/relgraph/relgraph/internal/scene"
)

// Draw operations.
const (
	OpView    = "view"
	OpRect    = "rect"
	OpEllipse = "ellipse"
	OpText    = "text"
	OpIssue   = "issue"
	OpPath    = "path"
	OpMarker  = "marker"
)

const (
	defaultFill   = "#ffffff"
	defaultStroke = "#333333"
)

var severityFill = map[string]string{
	"error":   "#d32f2f",
	"warning": "#f9a825",
	"info":    "#1976d2",
}

// DrawCommand represents a single drawing operation for the frontend to execute.
// Coordinates are canvas coordinates; the leading "view" command carries the
// canvas-to-viewport transform.
type DrawCommand struct {
	Op          string    `json:"op"`
	ObjectID    string    `json:"objectId,omitempty"`
	Transform   []float64 `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
	X           float64   `json:"x,omitempty"`
	Y           float64   `json:"y,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
	D           string    `json:"d,omitempty"` // SVG path data
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Opacity     float64   `json:"opacity"`
	Selected    bool      `json:"selected,omitempty"`
	Highlighted bool      `json:"highlighted,omitempty"`
	Ghost       bool      `json:"ghost,omitempty"`
}

// CompileDrawCommands generates a draw command buffer from a scene tree.
// Commands are in painter's order (back to front). Ghosts are drawn last.
func CompileDrawCommands(root *scene.Root, ghosts []scene.Element) []DrawCommand {
	if root == nil {
		return nil
	}

	commands := []DrawCommand{{
		Op:        OpView,
		ObjectID:  root.ID(),
		Transform: root.ViewMatrix().ToSlice(),
		Opacity:   1,
	}}
	compileElement(root, root.Opacity(), false, &commands)
	for _, g := range ghosts {
		compileElement(g, inheritedOpacity(g), true, &commands)
	}
	return commands
}

// inheritedOpacity multiplies the opacity of e and all its ancestors.
func inheritedOpacity(e scene.Element) float64 {
	o := 1.0
	for cur := e; cur != nil; cur = cur.Parent() {
		o *= cur.Opacity()
	}
	return o
}

// compileElement recursively generates draw commands for an element and its children.
func compileElement(e scene.Element, opacity float64, ghost bool, commands *[]DrawCommand) {
	if opacity <= 0 {
		return
	}

	for _, cmd := range elementCommands(e) {
		cmd.ObjectID = e.ID()
		cmd.Opacity = opacity
		cmd.Ghost = ghost
		if s, ok := scene.AsSelectable(e); ok {
			cmd.Selected = s.Selected()
		}
		if h, ok := scene.AsHighlightable(e); ok {
			cmd.Highlighted = h.Highlighted()
		}
		*commands = append(*commands, cmd)
	}

	for _, child := range e.Children() {
		compileElement(child, opacity*child.Opacity(), ghost, commands)
	}
}

func elementCommands(e scene.Element) []DrawCommand {
	abs := scene.AbsolutePosition(e)
	switch v := e.(type) {
	case *scene.Component:
		return []DrawCommand{{
			Op:          OpRect,
			X:           abs.X,
			Y:           abs.Y,
			Width:       v.Width,
			Height:      v.Height,
			Text:        v.Name,
			Fill:        orDefault(v.Fill, defaultFill),
			Stroke:      orDefault(v.Stroke, defaultStroke),
			StrokeWidth: 1,
		}}

	case *scene.Interface:
		return []DrawCommand{{
			Op:          OpEllipse,
			X:           abs.X,
			Y:           abs.Y,
			Width:       2 * v.Radius,
			Height:      2 * v.Radius,
			Text:        v.Name,
			Fill:        defaultFill,
			Stroke:      defaultStroke,
			StrokeWidth: 1,
		}}

	case *scene.Issue:
		return []DrawCommand{{
			Op:   OpIssue,
			X:    abs.X,
			Y:    abs.Y,
			Text: v.Message,
			Fill: orDefault(severityFill[v.Severity], severityFill["info"]),
		}}

	case *scene.Label:
		return []DrawCommand{{
			Op:       OpText,
			X:        abs.X,
			Y:        abs.Y,
			Text:     v.Text,
			FontSize: v.FontSize,
			Fill:     defaultStroke,
		}}

	case *scene.Relation:
		return relationCommands(v)
	}
	return nil
}

func relationCommands(r *scene.Relation) []DrawCommand {
	stroke := orDefault(r.Stroke, defaultStroke)
	cmds := []DrawCommand{{
		Op:          OpPath,
		D:           r.VisiblePath().String(),
		Stroke:      stroke,
		StrokeWidth: r.StrokeWidth,
	}}
	for _, m := range r.Markers() {
		cmd := DrawCommand{
			Op:          OpMarker,
			Transform:   m.Transform().ToSlice(),
			D:           marker.Lookup(m.Kind).Template(),
			Text:        string(m.Kind),
			Stroke:      stroke,
			StrokeWidth: r.StrokeWidth,
		}
		if marker.Lookup(m.Kind).Filled() {
			cmd.Fill = stroke
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if len(commands) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// GetSelectionBounds returns the combined bounding box of the given element ids.
func GetSelectionBounds(root *scene.Root, ids []string) geom.Bounds {
	var result geom.Bounds
	for _, id := range ids {
		e, ok := root.Lookup(id)
		if !ok {
			continue
		}
		result = result.Union(scene.ElementBounds(e))
	}
	return result
}

// RectToJSON serializes bounds to JSON.
func RectToJSON(r geom.Bounds) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
