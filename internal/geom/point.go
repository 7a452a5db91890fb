package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// Epsilon is the tolerance used when comparing coordinates and distances.
const Epsilon = 1e-9

// Point is a 2D coordinate or vector in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt creates a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the length of p as a vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Angle returns the angle of p as a vector, in radians in (-pi, pi].
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Normalize returns the unit vector of p, or the zero vector if p has no length.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Perp returns p rotated by 90 degrees: (-y, x).
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}
}

// Lerp interpolates linearly between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Equal reports whether p and q are within Epsilon of each other.
func (p Point) Equal(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// GG converts p to a gg point.
func (p Point) GG() gg.Point {
	return gg.Pt(p.X, p.Y)
}

// FromGG converts a gg point.
func FromGG(p gg.Point) Point {
	return Point{X: p.X, Y: p.Y}
}
