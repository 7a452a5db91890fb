package segment

import (
	"strings"

	"github.com/relgraph/relgraph/internal/geom"
)

// Path is an ordered sequence of segments starting at Start.
type Path struct {
	Start    geom.Point `json:"start"`
	Segments []Segment  `json:"segments"`
}

// PathHit is the result of projecting a point onto a path.
type PathHit struct {
	NearestPoint
	Segment int `json:"segment"`
}

// SegmentStart returns the point where segment i begins.
func (p Path) SegmentStart(i int) geom.Point {
	if i <= 0 || len(p.Segments) == 0 {
		return p.Start
	}
	return p.Segments[min(i, len(p.Segments))-1].End
}

// End returns the last point of the path.
func (p Path) End() geom.Point {
	return p.SegmentStart(len(p.Segments))
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(formatNumber(p.Start.X))
	b.WriteString(" ")
	b.WriteString(formatNumber(p.Start.Y))
	for i, seg := range p.Segments {
		b.WriteString(" ")
		b.WriteString(PathString(seg, p.SegmentStart(i)))
	}
	return b.String()
}

// ProjectPoint returns the nearest point of the whole path to q.
func (p Path) ProjectPoint(q geom.Point) (PathHit, bool) {
	return p.project(q, ProjectPoint)
}

// ProjectPointOrthogonal returns the best orthogonal projection of q over
// all segments.
func (p Path) ProjectPointOrthogonal(q geom.Point) (PathHit, bool) {
	return p.project(q, ProjectPointOrthogonal)
}

func (p Path) project(q geom.Point, fn func(geom.Point, Segment, geom.Point) NearestPoint) (PathHit, bool) {
	var best PathHit
	found := false
	for i, seg := range p.Segments {
		n := fn(q, seg, p.SegmentStart(i))
		if !found || n.Better(best.NearestPoint) {
			best = PathHit{NearestPoint: n, Segment: i}
			found = true
		}
	}
	return best, found
}

// Length returns the total length of the path.
func (p Path) Length() float64 {
	total := 0.0
	for i, seg := range p.Segments {
		total += Lookup(seg.Kind).Length(seg, p.SegmentStart(i))
	}
	return total
}

// PointAt returns the point at distance along the path, offset along the
// local normal. Distances outside the path clamp to its ends.
func (p Path) PointAt(distance, offset float64) geom.Point {
	if len(p.Segments) == 0 {
		return p.Start
	}
	i, pos := p.locate(distance)
	seg := p.Segments[i]
	return Lookup(seg.Kind).Point(pos, offset, seg, p.SegmentStart(i))
}

// locate maps a distance along the path to a segment index and position.
func (p Path) locate(distance float64) (int, float64) {
	remaining := max(0, distance)
	for i, seg := range p.Segments {
		l := Lookup(seg.Kind).Length(seg, p.SegmentStart(i))
		if remaining <= l || i == len(p.Segments)-1 {
			if l == 0 {
				return i, 0
			}
			return i, clamp01(remaining / l)
		}
		remaining -= l
	}
	return len(p.Segments) - 1, 1
}

// StartDirection returns the unit direction the path leaves its start in.
func (p Path) StartDirection() geom.Point {
	if len(p.Segments) == 0 {
		return geom.Point{}
	}
	seg := p.Segments[0]
	n := NormalVector(0, seg, p.Start)
	// Tangent is the normal rotated back by 90 degrees.
	return orientTangent(geom.Point{X: n.Y, Y: -n.X}, seg, p.Start, 0)
}

// EndDirection returns the unit direction the path arrives at its end in.
func (p Path) EndDirection() geom.Point {
	if len(p.Segments) == 0 {
		return geom.Point{}
	}
	i := len(p.Segments) - 1
	seg := p.Segments[i]
	start := p.SegmentStart(i)
	n := NormalVector(1, seg, start)
	return orientTangent(geom.Point{X: n.Y, Y: -n.X}, seg, start, 1)
}

// orientTangent flips t so that it points in the direction of travel. Arc
// normals face outward regardless of sweep, so the sign is checked against a
// nearby point.
func orientTangent(t geom.Point, seg Segment, start geom.Point, position float64) geom.Point {
	const h = 1e-4
	a := PointAt(max(0, position-h), 0, seg, start)
	b := PointAt(min(1, position+h), 0, seg, start)
	if b.Sub(a).Dot(t) < 0 {
		return t.Scale(-1)
	}
	return t
}

// Trim returns the path shortened by startTrim at the start and endTrim at
// the end, measured along the path. A path shorter than both trims
// collapses to its midpoint.
func (p Path) Trim(startTrim, endTrim float64) Path {
	if len(p.Segments) == 0 || (startTrim <= 0 && endTrim <= 0) {
		return p
	}
	total := p.Length()
	if startTrim+endTrim >= total {
		mid := p.PointAt(total/2, 0)
		return Path{Start: mid, Segments: []Segment{Line(mid)}}
	}

	fromIdx, fromPos := p.locate(startTrim)
	toIdx, toPos := p.locate(total - endTrim)

	var out Path
	for i := fromIdx; i <= toIdx; i++ {
		seg := p.Segments[i]
		from, to := 0.0, 1.0
		if i == fromIdx {
			from = fromPos
		}
		if i == toIdx {
			to = toPos
		}
		start, sub := Lookup(seg.Kind).Subsegment(seg, p.SegmentStart(i), from, to)
		if i == fromIdx {
			out.Start = start
		}
		out.Segments = append(out.Segments, sub)
	}
	return out
}
