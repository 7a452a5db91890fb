// Package scene is the in-memory element tree of a diagram. A tree is built
// wholesale from each incoming snapshot and never patched in place.
//
// Behaviour that differs between element types is expressed as capability
// interfaces (Selectable, Highlightable, Animatable, Positioned) checked with
// the As* predicates, so hosts can supply their own element types.
package scene

import (
	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/snapshot"
)

type Type = snapshot.NodeType

// Element is a node of the scene tree.
type Element interface {
	ID() string
	Type() Type
	Parent() Element
	Children() []Element
	Opacity() float64
	SetOpacity(float64)
}

// Selectable elements carry a selection flag that survives refreshes.
type Selectable interface {
	Element
	Selected() bool
	SetSelected(bool)
}

// Highlightable elements take part in hover highlighting.
type Highlightable interface {
	Element
	Highlighted() bool
	SetHighlighted(bool)
}

// Animatable elements expose numeric fields that can be interpolated.
type Animatable interface {
	Element
	AnimatableFields() []string
	Field(name string) (float64, bool)
	SetField(name string, value float64) bool
}

// Positioned elements have a position relative to their parent.
type Positioned interface {
	Element
	Position() geom.Point
}

func AsSelectable(e Element) (Selectable, bool) {
	s, ok := e.(Selectable)
	return s, ok
}

func AsHighlightable(e Element) (Highlightable, bool) {
	h, ok := e.(Highlightable)
	return h, ok
}

func AsAnimatable(e Element) (Animatable, bool) {
	a, ok := e.(Animatable)
	return a, ok
}

func AsPositioned(e Element) (Positioned, bool) {
	p, ok := e.(Positioned)
	return p, ok
}

// Base implements the structural part of Element. Concrete elements embed it.
type Base struct {
	id       string
	typ      Type
	parent   Element
	children []Element
	opacity  float64
}

func NewBase(id string, typ Type) Base {
	return Base{id: id, typ: typ, opacity: 1}
}

func (b *Base) ID() string { return b.id }
func (b *Base) Type() Type { return b.typ }
func (b *Base) Parent() Element { return b.parent }
func (b *Base) Children() []Element { return b.children }
func (b *Base) Opacity() float64 { return b.opacity }
func (b *Base) SetOpacity(o float64) { b.opacity = min(1, max(0, o)) }
func (b *Base) SetParent(p Element) { b.parent = p }
func (b *Base) AppendChild(c Element) { b.children = append(b.children, c) }

// Attach makes child the last child of parent.
func Attach(parent, child Element) {
	if p, ok := parent.(interface{ AppendChild(Element) }); ok {
		p.AppendChild(child)
	}
	if c, ok := child.(interface{ SetParent(Element) }); ok {
		c.SetParent(parent)
	}
}

type selection struct{ selected bool }

func (s *selection) Selected() bool { return s.selected }
func (s *selection) SetSelected(v bool) { s.selected = v }

type highlight struct{ highlighted bool }

func (h *highlight) Highlighted() bool { return h.highlighted }
func (h *highlight) SetHighlighted(v bool) { h.highlighted = v }

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of the visited element.
func Walk(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children() {
		Walk(c, fn)
	}
}

// Ancestors returns the parents of e from nearest to farthest.
func Ancestors(e Element) []Element {
	var out []Element
	for p := e.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}
