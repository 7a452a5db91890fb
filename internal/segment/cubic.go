package segment

import (
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/relgraph/relgraph/internal/geom"
)

type cubicEngine struct{}

func bezier(seg Segment, start geom.Point) gg.CubicBez {
	return gg.NewCubicBez(start.GG(), seg.Control1.GG(), seg.Control2.GG(), seg.End.GG())
}

// projectionSamples is the number of intervals scanned before refining the
// nearest parameter with Newton's method.
const projectionSamples = 32

func (cubicEngine) ProjectPoint(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	fallback := endpointFallback(q, start, seg.End)
	c := bezier(seg, start)
	target := q.GG()

	bestT, bestD := 0.0, math.Inf(1)
	for i := 0; i <= projectionSamples; i++ {
		t := float64(i) / projectionSamples
		if d := c.Eval(t).Distance(target); d < bestD {
			bestT, bestD = t, d
		}
	}

	// Newton on f(t) = (B(t) - q) · B'(t).
	t := bestT
	for range 8 {
		diff := c.Eval(t).Sub(target)
		d1 := c.Tangent(t)
		dd := secondDerivative(c, t)
		f := diff.X*d1.X + diff.Y*d1.Y
		df := d1.X*d1.X + d1.Y*d1.Y + diff.X*dd.X + diff.Y*dd.Y
		if df == 0 {
			break
		}
		next := clamp01(t - f/df)
		if math.Abs(next-t) < 1e-12 {
			t = next
			break
		}
		t = next
	}

	p := geom.FromGG(c.Eval(t))
	best := NearestPoint{Point: p, Distance: q.Distance(p), Position: t, Priority: t > 0 && t < 1}
	if fallback.Better(best) {
		return fallback
	}
	return best
}

func secondDerivative(c gg.CubicBez, t float64) gg.Point {
	a := c.P2.Sub(c.P1.Mul(2)).Add(c.P0)
	b := c.P3.Sub(c.P2.Mul(2)).Add(c.P1)
	return a.Mul(6 * (1 - t)).Add(b.Mul(6 * t))
}

func (e cubicEngine) ProjectPointOrthogonal(q geom.Point, seg Segment, start geom.Point) NearestPoint {
	c := bezier(seg, start)

	// Power basis per axis: a t^3 + b t^2 + c t + d.
	coefficients := func(p0, p1, p2, p3 float64) (float64, float64, float64, float64) {
		return -p0 + 3*p1 - 3*p2 + p3, 3*p0 - 6*p1 + 3*p2, -3*p0 + 3*p1, p0
	}

	var best NearestPoint
	found := false
	try := func(ts []float64) {
		for _, t := range ts {
			p := geom.FromGG(c.Eval(t))
			n := NearestPoint{Point: p, Distance: q.Distance(p), Position: t, Priority: true}
			if !found || n.Better(best) {
				best, found = n, true
			}
		}
	}

	ax, bx, cx, dx := coefficients(c.P0.X, c.P1.X, c.P2.X, c.P3.X)
	try(gg.SolveCubicInUnitInterval(ax, bx, cx, dx-q.X))
	ay, by, cy, dy := coefficients(c.P0.Y, c.P1.Y, c.P2.Y, c.P3.Y)
	try(gg.SolveCubicInUnitInterval(ay, by, cy, dy-q.Y))

	if !found {
		return e.ProjectPoint(q, seg, start)
	}
	return best
}

func (e cubicEngine) Point(position, offset float64, seg Segment, start geom.Point) geom.Point {
	p := geom.FromGG(bezier(seg, start).Eval(position))
	if offset == 0 {
		return p
	}
	return p.Add(e.NormalVector(position, seg, start).Scale(offset))
}

func (cubicEngine) NormalVector(position float64, seg Segment, start geom.Point) geom.Point {
	c := bezier(seg, start)
	n := c.Normal(position)
	if n.X == 0 && n.Y == 0 {
		// Coincident control points: use the chord.
		return seg.End.Sub(start).Perp().Normalize()
	}
	return geom.Point{X: n.X, Y: n.Y}
}

func (cubicEngine) PathString(seg Segment, _ geom.Point) string {
	return strings.Join([]string{
		"C",
		formatNumber(seg.Control1.X), formatNumber(seg.Control1.Y),
		formatNumber(seg.Control2.X), formatNumber(seg.Control2.Y),
		formatNumber(seg.End.X), formatNumber(seg.End.Y),
	}, " ")
}

func (cubicEngine) Length(seg Segment, start geom.Point) float64 {
	c := bezier(seg, start)
	const steps = 64
	length := 0.0
	prev := c.Eval(0)
	for i := 1; i <= steps; i++ {
		p := c.Eval(float64(i) / steps)
		length += prev.Distance(p)
		prev = p
	}
	return length
}

func (cubicEngine) Subsegment(seg Segment, start geom.Point, from, to float64) (geom.Point, Segment) {
	sub := bezier(seg, start).Subsegment(from, to)
	return geom.FromGG(sub.P0), Cubic(geom.FromGG(sub.P1), geom.FromGG(sub.P2), geom.FromGG(sub.P3))
}
