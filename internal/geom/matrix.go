package geom

import "math"

// Matrix2D is an affine transform stored as [a, b, c, d, e, f], mapping
// (x, y) to (a*x + c*y + e, b*x + d*y + f). The layout matches the canvas
// setTransform and SVG matrix() argument order.
type Matrix2D [6]float64

func Identity() Matrix2D { return Matrix2D{1, 0, 0, 1, 0, 0} }

func Translate(tx, ty float64) Matrix2D { return Matrix2D{1, 0, 0, 1, tx, ty} }

func Scale(sx, sy float64) Matrix2D { return Matrix2D{sx, 0, 0, sy, 0, 0} }

// Rotate turns counter-clockwise in a y-up frame, which is clockwise on a
// y-down canvas.
func Rotate(radians float64) Matrix2D {
	sin, cos := math.Sincos(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// Multiply composes m with other so that other is applied first.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	col0 := m.apply(other[0], other[1], 0)
	col1 := m.apply(other[2], other[3], 0)
	origin := m.apply(other[4], other[5], 1)
	return Matrix2D{col0.X, col0.Y, col1.X, col1.Y, origin.X, origin.Y}
}

// apply maps a vector (w = 0) or a point (w = 1).
func (m Matrix2D) apply(x, y, w float64) Point {
	return Point{
		X: m[0]*x + m[2]*y + m[4]*w,
		Y: m[1]*x + m[3]*y + m[5]*w,
	}
}

func (m Matrix2D) TransformPoint(p Point) Point { return m.apply(p.X, p.Y, 1) }

// TransformVector maps a direction, ignoring translation.
func (m Matrix2D) TransformVector(v Point) Point { return m.apply(v.X, v.Y, 0) }

// Invert returns the inverse transform. A singular matrix, such as a view at
// zoom 0, inverts to the identity.
func (m Matrix2D) Invert() Matrix2D {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < Epsilon*Epsilon {
		return Identity()
	}
	a, b := m[3]/det, -m[1]/det
	c, d := -m[2]/det, m[0]/det
	return Matrix2D{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// ToSlice returns the six coefficients for JSON draw commands.
func (m Matrix2D) ToSlice() []float64 { return m[:] }

func (m Matrix2D) IsIdentity() bool {
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) > Epsilon {
			return false
		}
	}
	return true
}
