package scene

import (
	"math"
	"slices"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/segment"
)

// hitTolerance widens thin shapes such as relations for pointer hits.
const hitTolerance = 4

// AbsolutePosition returns the canvas position of e, derived from the
// positions of e and its ancestors. Relations report their path start.
func AbsolutePosition(e Element) geom.Point {
	if r, ok := e.(*Relation); ok {
		return r.Path.Start
	}
	var p geom.Point
	for cur := e; cur != nil; cur = cur.Parent() {
		if pos, ok := AsPositioned(cur); ok {
			p = p.Add(pos.Position())
		}
	}
	return p
}

// ElementBounds returns the canvas bounding box of e itself, without its
// children. The root reports the union of everything below it.
func ElementBounds(e Element) geom.Bounds {
	abs := AbsolutePosition(e)
	switch v := e.(type) {
	case *Root:
		var b geom.Bounds
		Walk(v, func(c Element) bool {
			if c != Element(v) {
				b = b.Union(ElementBounds(c))
			}
			return true
		})
		return b
	case *Component:
		return geom.Bounds{X: abs.X, Y: abs.Y, Width: v.Width, Height: v.Height}
	case *Interface:
		return geom.Bounds{X: abs.X - v.Radius, Y: abs.Y - v.Radius, Width: 2 * v.Radius, Height: 2 * v.Radius}
	case *Issue:
		return geom.Bounds{X: abs.X - 8, Y: abs.Y - 8, Width: 16, Height: 16}
	case *Label:
		return geom.Bounds{
			X:      abs.X,
			Y:      abs.Y - v.FontSize,
			Width:  float64(len([]rune(v.Text))) * v.FontSize * 0.6,
			Height: v.FontSize * 1.2,
		}
	case *Relation:
		return PathBounds(v.Path).Expand(v.StrokeWidth / 2)
	}
	return geom.Bounds{X: abs.X, Y: abs.Y}
}

// PathBounds approximates the bounding box of a path by sampling it.
func PathBounds(p segment.Path) geom.Bounds {
	points := []geom.Point{p.Start}
	for i, seg := range p.Segments {
		start := p.SegmentStart(i)
		const samples = 16
		for s := 1; s <= samples; s++ {
			points = append(points, segment.PointAt(float64(s)/samples, 0, seg, start))
		}
	}
	return geom.BoundsOf(points...)
}

// HitTest returns the frontmost element under the canvas point p, or nil.
// Children are drawn over their parents and later siblings over earlier
// ones, so the tree is searched in reverse painter's order.
func HitTest(root *Root, p geom.Point) Element {
	if root == nil {
		return nil
	}
	return hitTestElement(root, p)
}

func hitTestElement(e Element, p geom.Point) Element {
	if e.Opacity() <= 0 {
		return nil
	}
	children := e.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if hit := hitTestElement(children[i], p); hit != nil {
			return hit
		}
	}
	if hits(e, p) {
		return e
	}
	return nil
}

func hits(e Element, p geom.Point) bool {
	switch v := e.(type) {
	case *Root:
		return false
	case *Relation:
		n, ok := v.Path.ProjectPoint(p)
		return ok && n.Distance <= v.StrokeWidth/2+hitTolerance
	case *Interface:
		return AbsolutePosition(v).Distance(p) <= v.Radius+hitTolerance/2
	}
	b := ElementBounds(e)
	return !b.IsEmpty() && b.Contains(p)
}

// Equal reports whether a and b describe the same element state: same id
// and type, the same animatable field values and the same non-numeric
// attributes. Children are not compared.
func Equal(a, b Element) bool {
	if a.ID() != b.ID() || a.Type() != b.Type() {
		return false
	}
	if s, ok := a.(interface{ sameAs(Element) bool }); ok && !s.sameAs(b) {
		return false
	}
	if r, ok := a.(*Root); ok {
		rb, ok := b.(*Root)
		return ok && r.Title == rb.Title
	}

	aa, aok := AsAnimatable(a)
	ba, bok := AsAnimatable(b)
	if aok != bok {
		return false
	}
	if !aok {
		return true
	}
	fields := aa.AnimatableFields()
	if !slices.Equal(fields, ba.AnimatableFields()) {
		return false
	}
	for _, f := range fields {
		av, _ := aa.Field(f)
		bv, _ := ba.Field(f)
		if math.Abs(av-bv) > geom.Epsilon {
			return false
		}
	}
	return true
}
