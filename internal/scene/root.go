package scene

import (
	"slices"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/snapshot"
)

// Root is the top of a scene tree. It owns the camera and the change
// revision, and indexes every element by id.
type Root struct {
	Base

	Title string

	// Camera state. Scroll is the canvas point shown at the top-left corner
	// of the viewport; CanvasBounds is the viewport size in screen pixels.
	Scroll       geom.Point
	Zoom         float64
	CanvasBounds geom.Bounds

	// ChangeRevision counts model updates.
	ChangeRevision int

	related map[string][]string
	index   map[string]Element

	view    geom.Matrix2D
	visible geom.Bounds
}

func NewRoot(id string) *Root {
	r := &Root{
		Base:    NewBase(id, snapshot.TypeRoot),
		Zoom:    1,
		related: make(map[string][]string),
		index:   make(map[string]Element),
	}
	r.UpdateView()
	return r
}

// CopyViewport carries the camera of from over to r and recomputes the
// derived view state.
func (r *Root) CopyViewport(from *Root) {
	r.CanvasBounds = from.CanvasBounds
	r.Scroll = from.Scroll
	r.Zoom = from.Zoom
	r.UpdateView()
}

// UpdateView recomputes the view matrix and visible region from the camera.
func (r *Root) UpdateView() {
	if r.Zoom <= 0 {
		r.Zoom = 1
	}
	r.view = geom.Scale(r.Zoom, r.Zoom).Multiply(geom.Translate(-r.Scroll.X, -r.Scroll.Y))
	r.visible = geom.Bounds{
		X:      r.Scroll.X,
		Y:      r.Scroll.Y,
		Width:  r.CanvasBounds.Width / r.Zoom,
		Height: r.CanvasBounds.Height / r.Zoom,
	}
}

// ViewMatrix maps canvas coordinates to viewport coordinates.
func (r *Root) ViewMatrix() geom.Matrix2D { return r.view }

// VisibleRegion is the part of the canvas inside the viewport.
func (r *Root) VisibleRegion() geom.Bounds { return r.visible }

// ToCanvas maps a viewport point to canvas coordinates.
func (r *Root) ToCanvas(p geom.Point) geom.Point {
	return r.view.Invert().TransformPoint(p)
}

// Lookup returns the element with id.
func (r *Root) Lookup(id string) (Element, bool) {
	e, ok := r.index[id]
	return e, ok
}

// Related returns the ids highlighted together with id.
func (r *Root) Related(id string) []string {
	return r.related[id]
}

// Len returns the number of indexed elements, the root included.
func (r *Root) Len() int { return len(r.index) }

// Reindex rebuilds the id index from the tree.
func (r *Root) Reindex() {
	r.index = make(map[string]Element)
	Walk(r, func(e Element) bool {
		r.index[e.ID()] = e
		return true
	})
}

// relate adds b to the related set of a.
func (r *Root) relate(a, b string) {
	if a == "" || b == "" || a == b || slices.Contains(r.related[a], b) {
		return
	}
	r.related[a] = append(r.related[a], b)
}
