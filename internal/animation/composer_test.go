package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/scene"
	"github.com/relgraph/relgraph/internal/snapshot"
)

func component(id string, x, y float64, children ...snapshot.Node) snapshot.Node {
	return snapshot.NewNode(id, snapshot.TypeComponent, snapshot.ComponentData{X: x, Y: y, Width: 10, Height: 10}, children...)
}

func build(t *testing.T, children ...snapshot.Node) *scene.Root {
	t.Helper()
	root, err := scene.Build(&snapshot.Snapshot{Root: snapshot.NewNode("root", snapshot.TypeRoot, nil, children...)})
	require.NoError(t, err)
	return root
}

func lookup[T scene.Element](t *testing.T, root *scene.Root, id string) T {
	t.Helper()
	e, ok := root.Lookup(id)
	require.True(t, ok, id)
	v, ok := e.(T)
	require.True(t, ok, id)
	return v
}

func testOptions() Options {
	return Options{Duration: 100 * time.Millisecond, FadeDuration: 300 * time.Millisecond}
}

func TestComposeScenario(t *testing.T) {
	old := build(t, component("A", 0, 0), component("B", 10, 0))
	next := build(t, component("A", 5, 0), component("C", 0, 10))

	u := NewComposer(nil, testOptions()).Compose(old, next)

	require.Len(t, u.Interpolations, 1)
	in := u.Interpolations[0]
	assert.Equal(t, "A", in.Element.ID())
	assert.Same(t, lookup[*scene.Component](t, next, "A"), in.Element)
	assert.Equal(t, map[string]Range{"x": {From: 0, To: 5}}, in.Fields)

	require.Len(t, u.Fades, 2)
	fades := map[string]bool{}
	for _, f := range u.Fades {
		fades[f.Element.ID()] = f.In
	}
	assert.Equal(t, map[string]bool{"B": false, "C": true}, fades)
	require.Len(t, u.Ghosts, 1)
	assert.Equal(t, "B", u.Ghosts[0].ID())

	c, ok := u.Animation.(*Compound)
	require.True(t, ok)
	assert.Equal(t, 300*time.Millisecond, c.Duration())
}

func TestComposeNoChange(t *testing.T) {
	old := build(t, component("A", 0, 0), component("B", 10, 0))
	old.ChangeRevision = 7
	next := build(t, component("A", 0, 0), component("B", 10, 0))

	u := NewComposer(nil, testOptions()).Compose(old, next)
	assert.Empty(t, u.Interpolations)
	assert.Empty(t, u.Fades)
	assert.Nil(t, u.Animation)
	assert.Equal(t, 8, next.ChangeRevision)
}

func TestComposeOnlyChangedFields(t *testing.T) {
	old := build(t, component("A", 0, 0))
	next := build(t, snapshot.NewNode("A", snapshot.TypeComponent, snapshot.ComponentData{X: 0, Y: 3, Width: 10, Height: 20}))

	u := NewComposer(nil, testOptions()).Compose(old, next)
	require.Len(t, u.Interpolations, 1)
	assert.Equal(t, []string{"height", "y"}, u.Interpolations[0].FieldNames())
	_, ok := u.Animation.(*Morph)
	assert.True(t, ok)
}

func TestComposeRevisionIncrements(t *testing.T) {
	c := NewComposer(nil, testOptions())

	first := build(t, component("A", 0, 0))
	c.Compose(nil, first)
	assert.Equal(t, 1, first.ChangeRevision)

	prev := first
	for i := 2; i <= 4; i++ {
		next := build(t, component("A", float64(i), 0))
		c.Compose(prev, next)
		assert.Equal(t, i, next.ChangeRevision)
		prev = next
	}
}

func TestComposeCarriesSelectionAndViewport(t *testing.T) {
	old := build(t, component("A", 0, 0))
	old.Scroll = geom.Pt(5, 5)
	old.Zoom = 2
	old.CanvasBounds = geom.Bounds{Width: 800, Height: 600}
	old.UpdateView()
	a := lookup[*scene.Component](t, old, "A")
	a.SetSelected(true)
	a.SetHighlighted(true)

	next := build(t, snapshot.NewNode("A", snapshot.TypeComponent, snapshot.ComponentData{
		X: 40, Y: 50, Width: 60, Height: 70, Name: "renamed", Fill: "#fff",
	}))
	NewComposer(nil, testOptions()).Compose(old, next)

	na := lookup[*scene.Component](t, next, "A")
	assert.True(t, na.Selected())
	assert.True(t, na.Highlighted())
	assert.Equal(t, geom.Pt(5, 5), next.Scroll)
	assert.Equal(t, 2.0, next.Zoom)
	assert.Equal(t, geom.Bounds{X: 5, Y: 5, Width: 400, Height: 300}, next.VisibleRegion())
}

func TestComposeFadesOnlyTopMost(t *testing.T) {
	label := snapshot.NewNode("B.l", snapshot.TypeLabel, snapshot.LabelData{Text: "b"})
	old := build(t, component("A", 0, 0), component("B", 0, 0, label))
	next := build(t, component("A", 0, 0), component("C", 0, 0, snapshot.NewNode("C.l", snapshot.TypeLabel, snapshot.LabelData{Text: "c"})))

	u := NewComposer(nil, testOptions()).Compose(old, next)
	var ids []string
	for _, f := range u.Fades {
		ids = append(ids, f.Element.ID())
	}
	assert.Equal(t, []string{"B", "C"}, ids)
}

func TestComposeMovedElementFades(t *testing.T) {
	label := func() snapshot.Node {
		return snapshot.NewNode("L", snapshot.TypeLabel, snapshot.LabelData{Text: "x"})
	}
	old := build(t, component("A", 0, 0, label()), component("B", 50, 0))
	next := build(t, component("A", 0, 0), component("B", 50, 0, label()))

	u := NewComposer(nil, testOptions()).Compose(old, next)
	assert.Empty(t, u.Interpolations)
	require.Len(t, u.Fades, 2)
	assert.True(t, u.Fades[0].In)
	assert.False(t, u.Fades[1].In)
	assert.Equal(t, "A", u.Fades[1].Element.Parent().ID())
}

func TestRunWithFrameScheduler(t *testing.T) {
	old := build(t, component("A", 0, 0), component("B", 10, 0))
	next := build(t, component("A", 10, 0), component("C", 0, 10))

	s := NewFrameScheduler()
	c := NewComposer(s, testOptions())
	u := c.Compose(old, next)

	var frames int
	done := false
	c.Run(u, func(float64) { frames++ }, func() { done = true })

	a := lookup[*scene.Component](t, next, "A")
	cc := lookup[*scene.Component](t, next, "C")
	b := lookup[*scene.Component](t, old, "B")
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, 0.0, cc.Opacity())
	assert.Same(t, u, c.Active())

	t0 := time.Unix(100, 0)
	s.Advance(t0)
	s.Advance(t0.Add(50 * time.Millisecond))
	assert.InDelta(t, 5, a.X, 1e-9)
	assert.InDelta(t, 1.0/6, cc.Opacity(), 1e-9)

	s.Advance(t0.Add(150 * time.Millisecond))
	assert.InDelta(t, 10, a.X, 1e-9)
	assert.InDelta(t, 0.5, b.Opacity(), 1e-9)
	assert.False(t, done)

	s.Advance(t0.Add(300 * time.Millisecond))
	assert.True(t, done)
	assert.Equal(t, 4, frames)
	assert.Equal(t, 1.0, cc.Opacity())
	assert.Nil(t, c.Active())
	assert.False(t, s.Active())
	assert.Empty(t, u.Ghosts)
}

func TestRunPreemption(t *testing.T) {
	first := build(t, component("A", 0, 0))
	second := build(t, component("A", 10, 0))
	third := build(t, component("A", 20, 0))

	s := NewFrameScheduler()
	c := NewComposer(s, Options{Duration: 100 * time.Millisecond})

	firstDone := false
	c.Run(c.Compose(first, second), nil, func() { firstDone = true })
	t0 := time.Unix(0, 0)
	s.Advance(t0)
	s.Advance(t0.Add(50 * time.Millisecond))
	mid := lookup[*scene.Component](t, second, "A")
	require.InDelta(t, 5, mid.X, 1e-9)

	u := c.Compose(second, third)
	require.Len(t, u.Interpolations, 1)
	assert.Equal(t, Range{From: 5, To: 20}, u.Interpolations[0].Fields["x"])

	secondDone := false
	c.Run(u, nil, func() { secondDone = true })
	a := lookup[*scene.Component](t, third, "A")
	assert.Equal(t, 5.0, a.X)

	s.Advance(t0.Add(60 * time.Millisecond))
	s.Advance(t0.Add(160 * time.Millisecond))
	assert.True(t, secondDone)
	assert.False(t, firstDone)
	assert.Equal(t, 20.0, a.X)
	assert.Equal(t, 2, third.ChangeRevision)
}

func TestRunWithoutAnimation(t *testing.T) {
	old := build(t, component("A", 0, 0))
	next := build(t, component("A", 0, 0))
	c := NewComposer(NewFrameScheduler(), testOptions())

	done := false
	c.Run(c.Compose(old, next), nil, func() { done = true })
	assert.True(t, done)
	assert.Nil(t, c.Active())
}

func TestRunImmediate(t *testing.T) {
	old := build(t, component("A", 0, 0))
	next := build(t, component("A", 7, 0))
	c := NewComposer(ImmediateScheduler{}, testOptions())

	var progress []float64
	c.Run(c.Compose(old, next), func(p float64) { progress = append(progress, p) }, nil)
	assert.Equal(t, []float64{1}, progress)
	assert.Equal(t, 7.0, lookup[*scene.Component](t, next, "A").X)
}

func TestCompoundDuration(t *testing.T) {
	a := &scene.Component{}
	morph := &Morph{
		Interpolations: []Interpolation{{Element: a, Fields: map[string]Range{"x": {From: 0, To: 10}}}},
		Length:         100 * time.Millisecond,
	}
	fade := &FadeAnimation{Fades: []Fade{{Element: a, In: true}}, Length: 400 * time.Millisecond}
	c := &Compound{Parts: []Animation{morph, fade}}

	assert.Equal(t, 400*time.Millisecond, c.Duration())
	c.Apply(0.125)
	assert.InDelta(t, 5, a.X, 1e-9)
	assert.InDelta(t, 0.125, a.Opacity(), 1e-9)
	c.Apply(0.5)
	assert.InDelta(t, 10, a.X, 1e-9)
	assert.InDelta(t, 0.5, a.Opacity(), 1e-9)
}
