// Package segment implements the geometry of relation paths: projection of
// points onto line, arc and cubic segments, parametric evaluation and
// serialization to SVG path data.
//
// A segment stores only its end point. Every operation receives the point
// where the segment begins, which is the previous segment's end or the path
// origin.
package segment

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/relgraph/relgraph/internal/geom"
)

// Kind tags the segment variant.
type Kind string

const (
	KindLine  Kind = "line"
	KindArc   Kind = "arc"
	KindCubic Kind = "cubic"
)

// ErrUnknownKind is returned when a segment carries a kind with no engine.
var ErrUnknownKind = errors.New("unknown segment kind")

// Segment is one geometric piece of a relation path.
type Segment struct {
	Kind Kind       `json:"kind"`
	End  geom.Point `json:"end"`

	// Arc
	Center    geom.Point `json:"center,omitzero"`
	RadiusX   float64    `json:"radiusX,omitempty"`
	RadiusY   float64    `json:"radiusY,omitempty"`
	Clockwise bool       `json:"clockwise,omitempty"`

	// Cubic
	Control1 geom.Point `json:"control1,omitzero"`
	Control2 geom.Point `json:"control2,omitzero"`
}

// Line returns a straight segment ending at end.
func Line(end geom.Point) Segment {
	return Segment{Kind: KindLine, End: end}
}

// Arc returns an elliptical arc segment.
func Arc(end, center geom.Point, rx, ry float64, clockwise bool) Segment {
	return Segment{Kind: KindArc, End: end, Center: center, RadiusX: rx, RadiusY: ry, Clockwise: clockwise}
}

// Cubic returns a cubic Bezier segment.
func Cubic(c1, c2, end geom.Point) Segment {
	return Segment{Kind: KindCubic, End: end, Control1: c1, Control2: c2}
}

// Validate checks that the segment can be evaluated.
func (s Segment) Validate() error {
	if _, ok := engines[s.Kind]; !ok {
		return fmt.Errorf("validate segment: %w: %q", ErrUnknownKind, s.Kind)
	}
	return nil
}

// NearestPoint is the result of projecting a point onto a segment.
//
// Position is the parametric location along the segment in [0, 1]. When the
// result is one of the endpoints chosen as a fallback, Position is 0 for the
// start and 1 for the end and Priority is false. Priority is true for
// perpendicular (interior) solutions, which win ties against endpoints.
type NearestPoint struct {
	Point    geom.Point `json:"point"`
	Distance float64    `json:"distance"`
	Position float64    `json:"position"`
	Priority bool       `json:"priority"`
}

// Better reports whether n should be preferred over other when scoring
// candidates: shorter distance wins, and on a tie a priority result wins.
func (n NearestPoint) Better(other NearestPoint) bool {
	if n.Distance < other.Distance-geom.Epsilon {
		return true
	}
	if n.Distance > other.Distance+geom.Epsilon {
		return false
	}
	return n.Priority && !other.Priority
}

// Engine is the geometry contract every segment kind implements.
type Engine interface {
	// ProjectPoint returns the closest point on the segment to q.
	ProjectPoint(q geom.Point, seg Segment, start geom.Point) NearestPoint
	// ProjectPointOrthogonal returns the point where a horizontal or
	// vertical line through q meets the segment, falling back to
	// ProjectPoint when there is none.
	ProjectPointOrthogonal(q geom.Point, seg Segment, start geom.Point) NearestPoint
	// Point evaluates the segment at position, moved offset along the normal.
	Point(position, offset float64, seg Segment, start geom.Point) geom.Point
	// NormalVector returns the unit normal at position.
	NormalVector(position float64, seg Segment, start geom.Point) geom.Point
	// PathString serializes the segment as an SVG path command.
	PathString(seg Segment, start geom.Point) string
	// Length returns the arc length of the segment.
	Length(seg Segment, start geom.Point) float64
	// Subsegment returns the part of the segment between two positions,
	// as a new start point and segment.
	Subsegment(seg Segment, start geom.Point, from, to float64) (geom.Point, Segment)
}

var engines = map[Kind]Engine{
	KindLine:  lineEngine{},
	KindArc:   arcEngine{},
	KindCubic: cubicEngine{},
}

// Lookup returns the engine for kind. Unknown kinds are treated as lines so
// that a malformed segment still renders.
func Lookup(kind Kind) Engine {
	if e, ok := engines[kind]; ok {
		return e
	}
	return lineEngine{}
}

// ProjectPoint projects q onto seg.
func ProjectPoint(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	return Lookup(seg.Kind).ProjectPoint(q, seg, start)
}

// ProjectPointOrthogonal projects q orthogonally onto seg.
func ProjectPointOrthogonal(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	return Lookup(seg.Kind).ProjectPointOrthogonal(q, seg, start)
}

// PointAt evaluates seg at position with a normal offset.
func PointAt(position, offset float64, seg Segment, start geom.Point) geom.Point {
	return Lookup(seg.Kind).Point(position, offset, seg, start)
}

// NormalVector returns the unit normal of seg at position.
func NormalVector(position float64, seg Segment, start geom.Point) geom.Point {
	return Lookup(seg.Kind).NormalVector(position, seg, start)
}

// PathString serializes seg.
func PathString(seg Segment, start geom.Point) string {
	return Lookup(seg.Kind).PathString(seg, start)
}

// endpointFallback returns the nearer of start and end. Ties go to start.
func endpointFallback(q, start, end geom.Point) NearestPoint {
	ds := q.Distance(start)
	de := q.Distance(end)
	if de < ds {
		return NearestPoint{Point: end, Distance: de, Position: 1}
	}
	return NearestPoint{Point: start, Distance: ds, Position: 0}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}

func formatNumber(v float64) string {
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
