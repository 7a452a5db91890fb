// Package marker describes the decorations drawn at relation ends and how
// much a relation path must be shortened so the decoration does not overlap
// the stroke.
//
// Every template is drawn with its tip at the origin, pointing along +x.
package marker

import (
	"math"

	"github.com/relgraph/relgraph/internal/geom"
)

// Kind tags a marker shape.
type Kind string

const (
	KindNone      Kind = "none"
	KindArrow     Kind = "arrow"
	KindOpenArrow Kind = "open-arrow"
	KindDiamond   Kind = "diamond"
	KindCircle    Kind = "circle"
)

// Engine is the contract each marker shape implements.
type Engine interface {
	// Template is the SVG path of the marker.
	Template() string
	// Outline is the marker polygon, for rasterizers without path parsing.
	Outline() []geom.Point
	// Filled reports whether the marker is painted with the stroke color.
	Filled() bool
	// StartOffset is how far the marker tip is pulled back from the path end
	// so that the stroke's miter lands on the target.
	StartOffset(strokeWidth float64) float64
	// LineOffset is the extra trim applied to the line behind the marker.
	LineOffset(strokeWidth float64) float64
}

var engines = map[Kind]Engine{
	KindNone:      none{},
	KindArrow:     arrow{length: 12, halfWidth: 5, filled: true},
	KindOpenArrow: arrow{length: 12, halfWidth: 5},
	KindDiamond:   diamond{length: 16, halfWidth: 5},
	KindCircle:    circle{radius: 5},
}

// Lookup returns the engine for kind; unknown kinds draw nothing.
func Lookup(kind Kind) Engine {
	if e, ok := engines[kind]; ok {
		return e
	}
	return none{}
}

// Offsets returns the start and line offsets of kind for a stroke width.
func Offsets(kind Kind, strokeWidth float64) (float64, float64) {
	e := Lookup(kind)
	return e.StartOffset(strokeWidth), e.LineOffset(strokeWidth)
}

// Trim is the total distance the path is shortened at a marker end.
func Trim(kind Kind, strokeWidth float64) float64 {
	start, line := Offsets(kind, strokeWidth)
	return start + line
}

// Placement returns the transform that draws the marker of a path end at
// tip, pointing in direction.
func Placement(tip, direction geom.Point) geom.Matrix2D {
	return geom.Translate(tip.X, tip.Y).Multiply(geom.Rotate(direction.Angle()))
}

// halfMiter is the distance from a sharp tip of half-angle alpha to the
// point where a stroke of width w traced along its sides meets.
func halfMiter(strokeWidth, alpha float64) float64 {
	return strokeWidth / (2 * math.Sin(alpha))
}

type none struct{}

func (none) Template() string { return "" }
func (none) Outline() []geom.Point { return nil }
func (none) Filled() bool { return false }
func (none) StartOffset(float64) float64 { return 0 }
func (none) LineOffset(float64) float64 { return 0 }

type arrow struct {
	length, halfWidth float64
	filled            bool
}

func (a arrow) Template() string {
	if a.filled {
		return "M 0 0 L -12 -5 L -12 5 Z"
	}
	return "M -12 -5 L 0 0 L -12 5"
}

func (a arrow) Outline() []geom.Point {
	return []geom.Point{{X: 0, Y: 0}, {X: -a.length, Y: -a.halfWidth}, {X: -a.length, Y: a.halfWidth}}
}

func (a arrow) Filled() bool { return a.filled }

func (a arrow) StartOffset(strokeWidth float64) float64 {
	return halfMiter(strokeWidth, math.Atan2(a.halfWidth, a.length))
}

func (a arrow) LineOffset(float64) float64 {
	if a.filled {
		return 0
	}
	// The open arrow's stroke would show through the chevron.
	return a.length / 2
}

type diamond struct {
	length, halfWidth float64
}

func (diamond) Template() string { return "M 0 0 L -8 -5 L -16 0 L -8 5 Z" }

func (d diamond) Outline() []geom.Point {
	return []geom.Point{
		{X: 0, Y: 0},
		{X: -d.length / 2, Y: -d.halfWidth},
		{X: -d.length, Y: 0},
		{X: -d.length / 2, Y: d.halfWidth},
	}
}

func (diamond) Filled() bool { return false }

func (d diamond) StartOffset(strokeWidth float64) float64 {
	return halfMiter(strokeWidth, math.Atan2(d.halfWidth, d.length/2))
}

func (d diamond) LineOffset(float64) float64 { return d.length }

type circle struct {
	radius float64
}

func (circle) Template() string {
	return "M 0 0 A 5 5 0 1 1 -10 0 A 5 5 0 1 1 0 0 Z"
}

func (c circle) Outline() []geom.Point {
	const n = 24
	out := make([]geom.Point, n)
	for i := range n {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / n)
		out[i] = geom.Point{X: -c.radius + c.radius*cos, Y: c.radius * sin}
	}
	return out
}

func (circle) Filled() bool { return false }

func (circle) StartOffset(strokeWidth float64) float64 { return strokeWidth / 2 }

func (c circle) LineOffset(float64) float64 { return 2 * c.radius }
