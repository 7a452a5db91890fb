package segment

import (
	"math"
	"strings"

	"github.com/relgraph/relgraph/internal/geom"
)

type arcEngine struct{}

// arcAngle returns the parametric angle of p on the ellipse of seg.
func arcAngle(p geom.Point, seg Segment) float64 {
	v := p.Sub(seg.Center)
	return math.Atan2(v.Y/seg.RadiusY, v.X/seg.RadiusX)
}

// DeltaAngle returns the signed angular span of an arc from start to its
// end. Clockwise arcs have a positive span and counter-clockwise arcs a
// negative one; a raw difference pointing the other way is wrapped by 2π,
// so a clockwise arc from 350° to 10° spans +20°.
func DeltaAngle(seg Segment, start geom.Point) float64 {
	delta := arcAngle(seg.End, seg) - arcAngle(start, seg)
	if seg.Clockwise && delta < 0 {
		delta += 2 * math.Pi
	}
	if !seg.Clockwise && delta > 0 {
		delta -= 2 * math.Pi
	}
	return delta
}

// arcSpan returns the start angle and span, and false for arcs that cannot
// be evaluated as an ellipse.
func arcSpan(seg Segment, start geom.Point) (float64, float64, bool) {
	if seg.RadiusX <= 0 || seg.RadiusY <= 0 || start.Equal(seg.End) {
		return 0, 0, false
	}
	delta := DeltaAngle(seg, start)
	if math.Abs(delta) < geom.Epsilon {
		return 0, 0, false
	}
	return arcAngle(start, seg), delta, true
}

// arcPosition maps the angle of p into the span. Points on the arc map into
// [0, 1]; points outside the span map above 1.
func arcPosition(p geom.Point, seg Segment, startAngle, delta float64) float64 {
	rel := arcAngle(p, seg) - startAngle
	if delta > 0 {
		rel = math.Mod(rel, 2*math.Pi)
		if rel < 0 {
			rel += 2 * math.Pi
		}
	} else {
		rel = math.Mod(rel, 2*math.Pi)
		if rel > 0 {
			rel -= 2 * math.Pi
		}
	}
	pos := rel / delta
	// An endpoint can land a rounding error past the start and wrap around.
	if pos > 1 && math.Abs(rel-2*math.Copysign(math.Pi, delta)) < 1e-9 {
		pos = 0
	}
	return pos
}

func ellipsePoint(seg Segment, angle float64) geom.Point {
	sin, cos := math.Sincos(angle)
	return geom.Point{X: seg.Center.X + seg.RadiusX*cos, Y: seg.Center.Y + seg.RadiusY*sin}
}

func (arcEngine) ProjectPoint(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	fallback := endpointFallback(q, start, seg.End)
	startAngle, delta, ok := arcSpan(seg, start)
	if !ok {
		return fallback
	}

	var best NearestPoint
	found := false
	for _, p := range geom.EllipseConic(seg.Center, seg.RadiusX, seg.RadiusY).Project(q) {
		pos := arcPosition(p, seg, startAngle, delta)
		if pos < -1e-9 || pos > 1+1e-9 {
			continue
		}
		d := q.Distance(p)
		if !found || d < best.Distance {
			best = NearestPoint{Point: p, Distance: d, Position: clamp01(pos), Priority: true}
			found = true
		}
	}

	if found && !fallback.Better(best) {
		return best
	}
	return fallback
}

func (e arcEngine) ProjectPointOrthogonal(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	startAngle, delta, ok := arcSpan(seg, start)
	if !ok {
		return e.ProjectPoint(q, seg, start)
	}

	var candidates []geom.Point
	// Fix x: the ellipse at x = q.X.
	if u := (q.X - seg.Center.X) / seg.RadiusX; u >= -1 && u <= 1 {
		h := seg.RadiusY * math.Sqrt(1-u*u)
		candidates = append(candidates,
			geom.Point{X: q.X, Y: seg.Center.Y + h},
			geom.Point{X: q.X, Y: seg.Center.Y - h})
	}
	// Fix y: the ellipse at y = q.Y.
	if u := (q.Y - seg.Center.Y) / seg.RadiusY; u >= -1 && u <= 1 {
		w := seg.RadiusX * math.Sqrt(1-u*u)
		candidates = append(candidates,
			geom.Point{X: seg.Center.X + w, Y: q.Y},
			geom.Point{X: seg.Center.X - w, Y: q.Y})
	}

	var best NearestPoint
	found := false
	for _, p := range candidates {
		pos := arcPosition(p, seg, startAngle, delta)
		if pos < -1e-9 || pos > 1+1e-9 {
			continue
		}
		c := NearestPoint{Point: p, Distance: q.Distance(p), Position: clamp01(pos), Priority: true}
		if !found || c.Better(best) {
			best, found = c, true
		}
	}
	if !found {
		return e.ProjectPoint(q, seg, start)
	}
	return best
}

func (e arcEngine) Point(position, offset float64, seg Segment, start geom.Point) geom.Point {
	startAngle, delta, ok := arcSpan(seg, start)
	if !ok {
		return lineEngine{}.Point(position, offset, Line(seg.End), start)
	}
	p := ellipsePoint(seg, startAngle+position*delta)
	if offset == 0 {
		return p
	}
	return p.Add(e.NormalVector(position, seg, start).Scale(offset))
}

// NormalVector returns the outward unit normal, the normalized gradient of
// the ellipse equation.
func (arcEngine) NormalVector(position float64, seg Segment, start geom.Point) geom.Point {
	startAngle, delta, ok := arcSpan(seg, start)
	if !ok {
		return lineEngine{}.NormalVector(position, Line(seg.End), start)
	}
	p := ellipsePoint(seg, startAngle+position*delta)
	gradient := geom.Point{
		X: (p.X - seg.Center.X) / (seg.RadiusX * seg.RadiusX),
		Y: (p.Y - seg.Center.Y) / (seg.RadiusY * seg.RadiusY),
	}
	return gradient.Normalize()
}

func (arcEngine) PathString(seg Segment, start geom.Point) string {
	if seg.RadiusX <= 0 || seg.RadiusY <= 0 {
		return lineEngine{}.PathString(seg, start)
	}
	large, sweep := "0", "0"
	if math.Abs(DeltaAngle(seg, start)) > math.Pi {
		large = "1"
	}
	if seg.Clockwise {
		sweep = "1"
	}
	return strings.Join([]string{
		"A", formatNumber(seg.RadiusX), formatNumber(seg.RadiusY), "0", large, sweep,
		formatNumber(seg.End.X), formatNumber(seg.End.Y),
	}, " ")
}

func (arcEngine) Length(seg Segment, start geom.Point) float64 {
	_, delta, ok := arcSpan(seg, start)
	if !ok {
		return start.Distance(seg.End)
	}
	if seg.RadiusX == seg.RadiusY {
		return math.Abs(delta) * seg.RadiusX
	}
	// Ellipse arcs have no closed form; sum chords.
	const steps = 64
	length := 0.0
	prev := start
	for i := 1; i <= steps; i++ {
		p := arcEngine{}.Point(float64(i)/steps, 0, seg, start)
		length += prev.Distance(p)
		prev = p
	}
	return length
}

func (e arcEngine) Subsegment(seg Segment, start geom.Point, from, to float64) (geom.Point, Segment) {
	if _, _, ok := arcSpan(seg, start); !ok {
		return lineEngine{}.Subsegment(Line(seg.End), start, from, to)
	}
	sub := seg
	sub.End = e.Point(to, 0, seg, start)
	return e.Point(from, 0, seg, start), sub
}
