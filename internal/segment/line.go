package segment

import (
	"math"

	"github.com/relgraph/relgraph/internal/geom"
)

type lineEngine struct{}

func (lineEngine) ProjectPoint(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	v := seg.End.Sub(start)
	lenSq := v.Dot(v)
	if lenSq < geom.Epsilon*geom.Epsilon {
		return endpointFallback(q, start, seg.End)
	}

	t := q.Sub(start).Dot(v) / lenSq
	clamped := clamp01(t)
	p := start.Add(v.Scale(clamped))
	return NearestPoint{
		Point:    p,
		Distance: q.Distance(p),
		Position: clamped,
		Priority: t == clamped,
	}
}

func (e lineEngine) ProjectPointOrthogonal(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	v := seg.End.Sub(start)

	var best NearestPoint
	found := false
	try := func(t float64) {
		if t < -geom.Epsilon || t > 1+geom.Epsilon {
			return
		}
		t = clamp01(t)
		p := start.Add(v.Scale(t))
		c := NearestPoint{Point: p, Distance: q.Distance(p), Position: t, Priority: true}
		if !found || c.Better(best) {
			best, found = c, true
		}
	}

	// Vertical line through q.
	if math.Abs(v.X) > geom.Epsilon {
		try((q.X - start.X) / v.X)
	}
	// Horizontal line through q.
	if math.Abs(v.Y) > geom.Epsilon {
		try((q.Y - start.Y) / v.Y)
	}

	if !found {
		return e.ProjectPoint(q, seg, start)
	}
	return best
}

func (e lineEngine) Point(position, offset float64, seg Segment, start geom.Point) geom.Point {
	p := start.Lerp(seg.End, position)
	if offset == 0 {
		return p
	}
	return p.Add(e.NormalVector(position, seg, start).Scale(offset))
}

func (lineEngine) NormalVector(_ float64, seg Segment, start geom.Point) geom.Point {
	return seg.End.Sub(start).Perp().Normalize()
}

func (lineEngine) PathString(seg Segment, _ geom.Point) string {
	return "L " + formatNumber(seg.End.X) + " " + formatNumber(seg.End.Y)
}

func (lineEngine) Length(seg Segment, start geom.Point) float64 {
	return start.Distance(seg.End)
}

func (lineEngine) Subsegment(seg Segment, start geom.Point, from, to float64) (geom.Point, Segment) {
	return start.Lerp(seg.End, from), Line(start.Lerp(seg.End, to))
}
