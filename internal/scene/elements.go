package scene

import (
	"slices"
	"strconv"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/marker"
	"github.com/relgraph/relgraph/internal/segment"
	"github.com/relgraph/relgraph/internal/snapshot"
)

// fieldRef binds an animatable field name to its storage.
type fieldRef struct {
	name string
	ptr  *float64
}

func fieldNames(refs []fieldRef) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.name
	}
	return names
}

func getField(refs []fieldRef, name string) (float64, bool) {
	for _, r := range refs {
		if r.name == name {
			return *r.ptr, true
		}
	}
	return 0, false
}

func setField(refs []fieldRef, name string, v float64) bool {
	for _, r := range refs {
		if r.name == name {
			*r.ptr = v
			return true
		}
	}
	return false
}

// Component is a box in the diagram, positioned relative to its parent.
type Component struct {
	Base
	selection
	highlight

	X, Y          float64
	Width, Height float64
	Name          string
	Fill          string
	Stroke        string
}

func NewComponent(id string, d snapshot.ComponentData) *Component {
	return &Component{
		Base:   NewBase(id, snapshot.TypeComponent),
		X:      d.X,
		Y:      d.Y,
		Width:  d.Width,
		Height: d.Height,
		Name:   d.Name,
		Fill:   d.Fill,
		Stroke: d.Stroke,
	}
}

func (c *Component) Position() geom.Point { return geom.Pt(c.X, c.Y) }

func (c *Component) fields() []fieldRef {
	return []fieldRef{{"x", &c.X}, {"y", &c.Y}, {"width", &c.Width}, {"height", &c.Height}}
}

func (c *Component) AnimatableFields() []string { return fieldNames(c.fields()) }
func (c *Component) Field(name string) (float64, bool) { return getField(c.fields(), name) }
func (c *Component) SetField(name string, v float64) bool { return setField(c.fields(), name, v) }

func (c *Component) sameAs(other Element) bool {
	o, ok := other.(*Component)
	return ok && c.Name == o.Name && c.Fill == o.Fill && c.Stroke == o.Stroke
}

// Interface is a connection point on a component.
type Interface struct {
	Base
	selection
	highlight

	X, Y   float64
	Radius float64
	Name   string
}

func NewInterface(id string, d snapshot.InterfaceData) *Interface {
	return &Interface{
		Base:   NewBase(id, snapshot.TypeInterface),
		X:      d.X,
		Y:      d.Y,
		Radius: d.Radius,
		Name:   d.Name,
	}
}

func (i *Interface) Position() geom.Point { return geom.Pt(i.X, i.Y) }

func (i *Interface) fields() []fieldRef {
	return []fieldRef{{"x", &i.X}, {"y", &i.Y}, {"radius", &i.Radius}}
}

func (i *Interface) AnimatableFields() []string { return fieldNames(i.fields()) }
func (i *Interface) Field(name string) (float64, bool) { return getField(i.fields(), name) }
func (i *Interface) SetField(name string, v float64) bool { return setField(i.fields(), name, v) }

func (i *Interface) sameAs(other Element) bool {
	o, ok := other.(*Interface)
	return ok && i.Name == o.Name
}

// Issue is a problem marker attached to an element. Issues can be selected
// but do not highlight.
type Issue struct {
	Base
	selection

	X, Y     float64
	Severity string
	Message  string
}

func NewIssue(id string, d snapshot.IssueData) *Issue {
	return &Issue{
		Base:     NewBase(id, snapshot.TypeIssue),
		X:        d.X,
		Y:        d.Y,
		Severity: d.Severity,
		Message:  d.Message,
	}
}

func (i *Issue) Position() geom.Point { return geom.Pt(i.X, i.Y) }

func (i *Issue) fields() []fieldRef { return []fieldRef{{"x", &i.X}, {"y", &i.Y}} }

func (i *Issue) AnimatableFields() []string { return fieldNames(i.fields()) }
func (i *Issue) Field(name string) (float64, bool) { return getField(i.fields(), name) }
func (i *Issue) SetField(name string, v float64) bool { return setField(i.fields(), name, v) }

func (i *Issue) sameAs(other Element) bool {
	o, ok := other.(*Issue)
	return ok && i.Severity == o.Severity && i.Message == o.Message
}

// Label is text. It has no interaction state of its own; hovering a label
// highlights its nearest highlightable ancestor.
type Label struct {
	Base

	X, Y     float64
	Text     string
	FontSize float64
}

const defaultFontSize = 12

func NewLabel(id string, d snapshot.LabelData) *Label {
	size := d.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	return &Label{
		Base:     NewBase(id, snapshot.TypeLabel),
		X:        d.X,
		Y:        d.Y,
		Text:     d.Text,
		FontSize: size,
	}
}

func (l *Label) Position() geom.Point { return geom.Pt(l.X, l.Y) }

func (l *Label) fields() []fieldRef {
	return []fieldRef{{"x", &l.X}, {"y", &l.Y}, {"fontSize", &l.FontSize}}
}

func (l *Label) AnimatableFields() []string { return fieldNames(l.fields()) }
func (l *Label) Field(name string) (float64, bool) { return getField(l.fields(), name) }
func (l *Label) SetField(name string, v float64) bool { return setField(l.fields(), name, v) }

func (l *Label) sameAs(other Element) bool {
	o, ok := other.(*Label)
	return ok && l.Text == o.Text
}

// Relation is an edge between two elements. Its path is in canvas
// coordinates, independent of where the relation sits in the tree.
type Relation struct {
	Base
	selection
	highlight

	Path        segment.Path
	StartMarker marker.Kind
	EndMarker   marker.Kind
	StrokeWidth float64
	Stroke      string
	Source      string
	Target      string
}

const defaultStrokeWidth = 1

func NewRelation(id string, d snapshot.RelationData) *Relation {
	width := d.StrokeWidth
	if width <= 0 {
		width = defaultStrokeWidth
	}
	return &Relation{
		Base:        NewBase(id, snapshot.TypeRelation),
		Path:        segment.Path{Start: d.Start, Segments: slices.Clone(d.Segments)},
		StartMarker: d.StartMarker,
		EndMarker:   d.EndMarker,
		StrokeWidth: width,
		Stroke:      d.Stroke,
		Source:      d.Source,
		Target:      d.Target,
	}
}

func (r *Relation) fields() []fieldRef {
	refs := []fieldRef{
		{"start.x", &r.Path.Start.X},
		{"start.y", &r.Path.Start.Y},
		{"strokeWidth", &r.StrokeWidth},
	}
	for i := range r.Path.Segments {
		s := &r.Path.Segments[i]
		prefix := "segments." + strconv.Itoa(i) + "."
		refs = append(refs,
			fieldRef{prefix + "end.x", &s.End.X},
			fieldRef{prefix + "end.y", &s.End.Y})
		switch s.Kind {
		case segment.KindArc:
			refs = append(refs,
				fieldRef{prefix + "center.x", &s.Center.X},
				fieldRef{prefix + "center.y", &s.Center.Y},
				fieldRef{prefix + "radiusX", &s.RadiusX},
				fieldRef{prefix + "radiusY", &s.RadiusY})
		case segment.KindCubic:
			refs = append(refs,
				fieldRef{prefix + "control1.x", &s.Control1.X},
				fieldRef{prefix + "control1.y", &s.Control1.Y},
				fieldRef{prefix + "control2.x", &s.Control2.X},
				fieldRef{prefix + "control2.y", &s.Control2.Y})
		}
	}
	return refs
}

func (r *Relation) AnimatableFields() []string { return fieldNames(r.fields()) }
func (r *Relation) Field(name string) (float64, bool) { return getField(r.fields(), name) }
func (r *Relation) SetField(name string, v float64) bool { return setField(r.fields(), name, v) }

func (r *Relation) sameAs(other Element) bool {
	o, ok := other.(*Relation)
	if !ok || r.StartMarker != o.StartMarker || r.EndMarker != o.EndMarker ||
		r.Stroke != o.Stroke || r.Source != o.Source || r.Target != o.Target ||
		len(r.Path.Segments) != len(o.Path.Segments) {
		return false
	}
	for i, s := range r.Path.Segments {
		t := o.Path.Segments[i]
		if s.Kind != t.Kind || s.Clockwise != t.Clockwise {
			return false
		}
	}
	return true
}

// MarkerPlacement is a marker drawn at one end of a relation.
type MarkerPlacement struct {
	Kind      marker.Kind
	Tip       geom.Point
	Direction geom.Point
}

// Transform places the marker template at its tip.
func (m MarkerPlacement) Transform() geom.Matrix2D {
	return marker.Placement(m.Tip, m.Direction)
}

// VisiblePath is the path shortened at both ends so that markers do not
// overlap the stroke.
func (r *Relation) VisiblePath() segment.Path {
	return r.Path.Trim(marker.Trim(r.StartMarker, r.StrokeWidth), marker.Trim(r.EndMarker, r.StrokeWidth))
}

// Markers returns where the relation's markers are drawn. Each tip is pulled
// back along the path by the marker's start offset and points away from the
// line.
func (r *Relation) Markers() []MarkerPlacement {
	if len(r.Path.Segments) == 0 {
		return nil
	}
	var out []MarkerPlacement
	total := r.Path.Length()
	if r.StartMarker != "" && r.StartMarker != marker.KindNone {
		offset, _ := marker.Offsets(r.StartMarker, r.StrokeWidth)
		out = append(out, MarkerPlacement{
			Kind:      r.StartMarker,
			Tip:       r.Path.PointAt(offset, 0),
			Direction: r.Path.StartDirection().Scale(-1),
		})
	}
	if r.EndMarker != "" && r.EndMarker != marker.KindNone {
		offset, _ := marker.Offsets(r.EndMarker, r.StrokeWidth)
		out = append(out, MarkerPlacement{
			Kind:      r.EndMarker,
			Tip:       r.Path.PointAt(total-offset, 0),
			Direction: r.Path.EndDirection(),
		})
	}
	return out
}
