package segment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/internal/geom"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

func onCircle(center geom.Point, r, angle float64) geom.Point {
	return geom.Pt(center.X+r*math.Cos(angle), center.Y+r*math.Sin(angle))
}

func assertPoint(t *testing.T, want, got geom.Point, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, delta, "y of %v", got)
}

func TestDeltaAngleWrap(t *testing.T) {
	center := geom.Pt(0, 0)
	start := onCircle(center, 10, deg(350))
	end := onCircle(center, 10, deg(10))

	cw := Arc(end, center, 10, 10, true)
	assert.InDelta(t, deg(20), DeltaAngle(cw, start), 1e-9)

	ccw := Arc(start, center, 10, 10, false)
	assert.InDelta(t, deg(-20), DeltaAngle(ccw, end), 1e-9)

	long := Arc(end, center, 10, 10, false)
	assert.InDelta(t, deg(-340), DeltaAngle(long, start), 1e-9)
}

func TestArcProjectPointOnBoundary(t *testing.T) {
	tests := []struct {
		name       string
		rx, ry     float64
		from, to   float64
		clockwise  bool
		queryAngle float64
	}{
		{"circle quarter", 10, 10, 0, 90, true, 30},
		{"wrapping clockwise", 10, 10, 350, 10, true, 5},
		{"ellipse counter-clockwise", 40, 15, 120, 20, false, 70},
		{"ellipse wide span", 25, 60, -100, 200, true, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := geom.Pt(3, -7)
			point := func(a float64) geom.Point {
				return geom.Pt(center.X+tt.rx*math.Cos(deg(a)), center.Y+tt.ry*math.Sin(deg(a)))
			}
			start := point(tt.from)
			seg := Arc(point(tt.to), center, tt.rx, tt.ry, tt.clockwise)
			q := point(tt.queryAngle)

			n := ProjectPoint(q, seg, start)
			assert.InDelta(t, 0, n.Distance, 1e-6)
			assertPoint(t, q, n.Point, 1e-6)
			assert.True(t, n.Priority)
			require.GreaterOrEqual(t, n.Position, 0.0)
			require.LessOrEqual(t, n.Position, 1.0)

			// Position maps back to the queried angle.
			assertPoint(t, q, PointAt(n.Position, 0, seg, start), 1e-6)
		})
	}
}

func TestArcProjectPointOutsideSpanFallsBackToEndpoint(t *testing.T) {
	center := geom.Pt(0, 0)
	start := geom.Pt(10, 0)
	seg := Arc(geom.Pt(0, 10), center, 10, 10, true)

	n := ProjectPoint(onCircle(center, 10, deg(180)), seg, start)
	assertPoint(t, geom.Pt(0, 10), n.Point, 1e-9)
	assert.Equal(t, 1.0, n.Position)
	assert.False(t, n.Priority)
}

func TestArcProjectPointTiePrefersPriority(t *testing.T) {
	start := geom.Pt(10, 0)
	seg := Arc(geom.Pt(0, 10), geom.Pt(0, 0), 10, 10, true)

	n := ProjectPoint(geom.Pt(20, 0), seg, start)
	assertPoint(t, start, n.Point, 1e-6)
	assert.InDelta(t, 10, n.Distance, 1e-6)
	assert.True(t, n.Priority)
}

func TestArcProjectPointNearestInterior(t *testing.T) {
	start := geom.Pt(10, 0)
	seg := Arc(geom.Pt(0, 10), geom.Pt(0, 0), 10, 10, true)

	n := ProjectPoint(geom.Pt(20, 20), seg, start)
	assertPoint(t, onCircle(geom.Pt(0, 0), 10, deg(45)), n.Point, 1e-6)
	assert.InDelta(t, 0.5, n.Position, 1e-6)
	assert.True(t, n.Priority)
}

func TestDegenerateArcs(t *testing.T) {
	q := geom.Pt(9, 1)

	zero := Arc(geom.Pt(0, 10), geom.Pt(0, 0), 0, 10, true)
	n := ProjectPoint(q, zero, geom.Pt(10, 0))
	assert.Equal(t, geom.Pt(10, 0), n.Point)
	assert.Equal(t, 0.0, n.Position)
	assert.False(t, n.Priority)

	coincident := Arc(geom.Pt(10, 0), geom.Pt(0, 0), 10, 10, true)
	n = ProjectPoint(q, coincident, geom.Pt(10, 0))
	assert.Equal(t, geom.Pt(10, 0), n.Point)
	assert.False(t, n.Priority)

	assert.NotPanics(t, func() {
		ProjectPointOrthogonal(q, zero, geom.Pt(10, 0))
		PointAt(0.5, 1, zero, geom.Pt(10, 0))
		NormalVector(0.5, coincident, geom.Pt(10, 0))
	})
}

func TestArcProjectPointOrthogonal(t *testing.T) {
	start := geom.Pt(10, 0)
	seg := Arc(geom.Pt(0, 10), geom.Pt(0, 0), 10, 10, true)

	n := ProjectPointOrthogonal(geom.Pt(6, 20), seg, start)
	assertPoint(t, geom.Pt(6, 8), n.Point, 1e-9)
	assert.InDelta(t, 12, n.Distance, 1e-9)
	assert.InDelta(t, math.Atan2(8, 6)/deg(90), n.Position, 1e-9)
	assert.True(t, n.Priority)

	// No horizontal or vertical line through q meets the arc.
	fallback := ProjectPointOrthogonal(geom.Pt(-20, -20), seg, start)
	assert.Equal(t, ProjectPoint(geom.Pt(-20, -20), seg, start), fallback)
}

func TestArcPointAndNormal(t *testing.T) {
	start := geom.Pt(10, 0)
	seg := Arc(geom.Pt(0, 10), geom.Pt(0, 0), 10, 10, true)

	assertPoint(t, onCircle(geom.Pt(0, 0), 12, deg(45)), PointAt(0.5, 2, seg, start), 1e-9)
	assertPoint(t, geom.Pt(1, 0), NormalVector(0, seg, start), 1e-9)

	ellipse := Arc(geom.Pt(0, 5), geom.Pt(0, 0), 20, 5, true)
	assertPoint(t, geom.Pt(0, 1), NormalVector(1, ellipse, geom.Pt(20, 0)), 1e-9)
}

func TestLineProjection(t *testing.T) {
	start := geom.Pt(0, 0)
	seg := Line(geom.Pt(10, 0))

	n := ProjectPoint(geom.Pt(4, 7), seg, start)
	assert.Equal(t, geom.Pt(4, 0), n.Point)
	assert.InDelta(t, 0.4, n.Position, 1e-12)
	assert.True(t, n.Priority)

	n = ProjectPoint(geom.Pt(-5, 3), seg, start)
	assert.Equal(t, start, n.Point)
	assert.Equal(t, 0.0, n.Position)
	assert.False(t, n.Priority)

	o := ProjectPointOrthogonal(geom.Pt(4, 7), seg, start)
	assert.Equal(t, geom.Pt(4, 0), o.Point)
	assert.True(t, o.Priority)

	o = ProjectPointOrthogonal(geom.Pt(20, 5), seg, start)
	assert.Equal(t, geom.Pt(10, 0), o.Point)
	assert.False(t, o.Priority)

	degenerate := ProjectPoint(geom.Pt(3, 3), Line(start), start)
	assert.Equal(t, start, degenerate.Point)
	assert.False(t, degenerate.Priority)
}

func TestLineOrthogonalPicksNearestAxis(t *testing.T) {
	start := geom.Pt(0, 0)
	seg := Line(geom.Pt(10, 20))

	o := ProjectPointOrthogonal(geom.Pt(8, 4), seg, start)
	// Vertical gives (8, 16), horizontal gives (2, 4).
	assert.Equal(t, geom.Pt(2, 4), o.Point)
	assert.InDelta(t, 0.2, o.Position, 1e-12)
}

func TestLinePointWithOffset(t *testing.T) {
	seg := Line(geom.Pt(10, 0))
	assert.Equal(t, geom.Pt(5, 2), PointAt(0.5, 2, seg, geom.Pt(0, 0)))
	assert.Equal(t, geom.Pt(0, 1), NormalVector(0.5, seg, geom.Pt(0, 0)))
}

func TestCubic(t *testing.T) {
	start := geom.Pt(0, 0)
	seg := Cubic(geom.Pt(10.0/3, 0), geom.Pt(20.0/3, 0), geom.Pt(10, 0))

	n := ProjectPoint(geom.Pt(5, 3), seg, start)
	assertPoint(t, geom.Pt(5, 0), n.Point, 1e-9)
	assert.InDelta(t, 0.5, n.Position, 1e-9)
	assert.True(t, n.Priority)

	o := ProjectPointOrthogonal(geom.Pt(7, -4), seg, start)
	assertPoint(t, geom.Pt(7, 0), o.Point, 1e-9)

	assert.InDelta(t, 10, Lookup(KindCubic).Length(seg, start), 1e-9)
	assert.Equal(t, "C 0 -5 10 -5 10 0", PathString(Cubic(geom.Pt(0, -5), geom.Pt(10, -5), geom.Pt(10, 0)), start))
}

func TestPathString(t *testing.T) {
	p := Path{
		Start: geom.Pt(0, 0),
		Segments: []Segment{
			Line(geom.Pt(10, 0)),
			Arc(geom.Pt(15, 5), geom.Pt(10, 5), 5, 5, true),
			Arc(geom.Pt(20, 10), geom.Pt(15, 10), 5, 5, false),
		},
	}
	assert.Equal(t, "M 0 0 L 10 0 A 5 5 0 0 1 15 5 A 5 5 0 1 0 20 10", p.String())
}

func TestPathProjectAndTrim(t *testing.T) {
	p := Path{
		Start:    geom.Pt(0, 0),
		Segments: []Segment{Line(geom.Pt(10, 0)), Line(geom.Pt(10, 10))},
	}

	hit, ok := p.ProjectPoint(geom.Pt(12, 6))
	require.True(t, ok)
	assert.Equal(t, 1, hit.Segment)
	assert.Equal(t, geom.Pt(10, 6), hit.Point)

	assert.InDelta(t, 20, p.Length(), 1e-12)
	assertPoint(t, geom.Pt(10, 5), p.PointAt(15, 0), 1e-12)
	assertPoint(t, geom.Pt(1, 0), p.StartDirection(), 1e-9)
	assertPoint(t, geom.Pt(0, 1), p.EndDirection(), 1e-9)

	trimmed := p.Trim(2, 3)
	assert.Equal(t, geom.Pt(2, 0), trimmed.Start)
	assertPoint(t, geom.Pt(10, 7), trimmed.End(), 1e-12)
	assert.InDelta(t, 15, trimmed.Length(), 1e-9)

	collapsed := p.Trim(15, 15)
	assertPoint(t, geom.Pt(10, 0), collapsed.Start, 1e-12)

	_, ok = Path{Start: geom.Pt(1, 1)}.ProjectPoint(geom.Pt(0, 0))
	assert.False(t, ok)
}

func TestPathTrimArcStaysOnCircle(t *testing.T) {
	center := geom.Pt(0, 0)
	p := Path{Start: geom.Pt(10, 0), Segments: []Segment{Arc(geom.Pt(0, 10), center, 10, 10, true)}}

	trimmed := p.Trim(1, 1)
	assert.InDelta(t, 10, trimmed.Start.Distance(center), 1e-9)
	assert.InDelta(t, 10, trimmed.End().Distance(center), 1e-9)
	assert.InDelta(t, p.Length()-2, trimmed.Length(), 1e-9)

	dir := p.EndDirection()
	assertPoint(t, geom.Pt(-1, 0), dir, 1e-6)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Line(geom.Pt(1, 1)).Validate())
	err := Segment{Kind: "spline"}.Validate()
	assert.ErrorIs(t, err, ErrUnknownKind)
}
