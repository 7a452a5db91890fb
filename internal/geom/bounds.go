package geom

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// IsEmpty checks if the bounds have zero or negative area.
func (b Bounds) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Union returns the smallest bounds containing both.
func (b Bounds) Union(other Bounds) Bounds {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}

	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.X+b.Width, other.X+other.Width)
	maxY := max(b.Y+b.Height, other.Y+other.Height)

	return Bounds{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Expand returns the bounds grown by d on every side.
func (b Bounds) Expand(d float64) Bounds {
	return Bounds{X: b.X - d, Y: b.Y - d, Width: b.Width + 2*d, Height: b.Height + 2*d}
}

// Center returns the center point of the bounds.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// BoundsOf returns the bounding box of a set of points.
func BoundsOf(points ...Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
