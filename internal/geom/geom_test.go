package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointOps(t *testing.T) {
	p := Pt(3, 4)
	q := Pt(1, 1)

	assert.Equal(t, Pt(4, 5), p.Add(q))
	assert.Equal(t, Pt(2, 3), p.Sub(q))
	assert.Equal(t, Pt(6, 8), p.Scale(2))
	assert.InDelta(t, 5.0, p.Length(), 1e-12)
	assert.InDelta(t, math.Sqrt(13), p.Distance(q), 1e-12)
	assert.InDelta(t, math.Pi/2, Pt(0, 1).Angle(), 1e-12)
	assert.Equal(t, Point{}, Point{}.Normalize())
	assert.InDelta(t, 1.0, p.Normalize().Length(), 1e-12)
	assert.Equal(t, Pt(2, 2.5), p.Lerp(q, 0.5))
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(10, -4).Multiply(Scale(2, 2)).Multiply(Rotate(0.3))
	p := Pt(7, 3)

	back := m.Invert().TransformPoint(m.TransformPoint(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.True(t, m.Multiply(m.Invert()).IsIdentity())
}

func TestBoundsUnion(t *testing.T) {
	a := Bounds{X: 0, Y: 0, Width: 10, Height: 10}
	b := Bounds{X: 5, Y: -5, Width: 10, Height: 10}

	assert.Equal(t, Bounds{X: 0, Y: -5, Width: 15, Height: 15}, a.Union(b))
	assert.Equal(t, a, Bounds{}.Union(a))
	assert.True(t, a.Contains(Pt(10, 10)))
	assert.False(t, a.Contains(Pt(10.1, 10)))
}

func TestSolveQuartic(t *testing.T) {
	tests := []struct {
		name          string
		a, b, c, d, e float64
		expected      []float64
	}{
		{"four distinct roots", 1, -10, 35, -50, 24, []float64{1, 2, 3, 4}},
		{"biquadratic", 1, 0, -5, 0, 4, []float64{-2, -1, 1, 2}},
		{"no real roots", 1, 0, 0, 0, 1, nil},
		{"scaled leading coefficient", 2, -4, -2, 4, 0, []float64{-1, 0, 1, 2}},
		{"cubic fallback", 0, 1, -6, 11, -6, []float64{1, 2, 3}},
		{"double root", 1, -4, 6, -4, 1, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := SolveQuartic(tt.a, tt.b, tt.c, tt.d, tt.e)
			require.Len(t, roots, len(tt.expected), "roots=%v", roots)
			for i := range roots {
				assert.InDelta(t, tt.expected[i], roots[i], 1e-6)
			}
		})
	}
}

func containsPoint(points []Point, want Point, tol float64) bool {
	for _, p := range points {
		if p.Distance(want) < tol {
			return true
		}
	}
	return false
}

func TestConicProjectCircle(t *testing.T) {
	circle := EllipseConic(Pt(0, 0), 10, 10)

	candidates := circle.Project(Pt(20, 0))
	assert.True(t, containsPoint(candidates, Pt(10, 0), 1e-6), "candidates=%v", candidates)
	assert.True(t, containsPoint(candidates, Pt(-10, 0), 1e-6), "candidates=%v", candidates)

	diag := circle.Project(Pt(30, 30))
	want := Pt(10/math.Sqrt2, 10/math.Sqrt2)
	assert.True(t, containsPoint(diag, want, 1e-6), "candidates=%v", diag)
}

func TestConicProjectEllipseBoundaryPoint(t *testing.T) {
	center := Pt(50, 20)
	rx, ry := 40.0, 15.0
	ellipse := EllipseConic(center, rx, ry)

	for _, deg := range []float64{10, 45, 90, 135, 200, 300} {
		theta := deg * math.Pi / 180
		on := Pt(center.X+rx*math.Cos(theta), center.Y+ry*math.Sin(theta))
		candidates := ellipse.Project(on)
		assert.True(t, containsPoint(candidates, on, 1e-6), "angle %v: candidates=%v", deg, candidates)
	}
}

func TestConicProjectCenterOfCircle(t *testing.T) {
	circle := EllipseConic(Pt(5, 5), 2, 2)

	candidates := circle.Project(Pt(5, 5))
	require.NotEmpty(t, candidates)
	for _, p := range candidates {
		assert.InDelta(t, 2.0, p.Distance(Pt(5, 5)), 1e-6)
	}
}

func TestConicProjectRotated(t *testing.T) {
	// x^2 + xy + y^2 = 3 is an ellipse rotated by 45 degrees.
	k := Conic{A: 1, B: 1, C: 1, F: -3}

	along := k.Project(Pt(5, 5))
	assert.True(t, containsPoint(along, Pt(1, 1), 1e-6), "candidates=%v", along)

	across := k.Project(Pt(5, -5))
	assert.True(t, containsPoint(across, Pt(math.Sqrt(3), -math.Sqrt(3)), 1e-6), "candidates=%v", across)

	for _, p := range along {
		assert.InDelta(t, 0, k.Eval(p), 1e-6)
	}
}
