// Package animation turns the difference between two scene trees into a
// timed transition.
package animation

import (
	"maps"
	"slices"
	"time"

	"github.com/relgraph/relgraph/internal/scene"
)

// Animation applies its state at a progress in [0,1] of its own duration.
type Animation interface {
	Duration() time.Duration
	Apply(progress float64)
}

// Range is the start and end value of one interpolated field.
type Range struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

func (r Range) At(t float64) float64 {
	return r.From + (r.To-r.From)*t
}

// Interpolation lists the fields of one element that change.
type Interpolation struct {
	Element scene.Animatable
	Fields  map[string]Range
}

// FieldNames returns the interpolated field names in sorted order.
func (i Interpolation) FieldNames() []string {
	return slices.Sorted(maps.Keys(i.Fields))
}

// Fade is an opacity transition of an element entering (In) or leaving the
// scene.
type Fade struct {
	Element scene.Element
	In      bool
}

// Morph interpolates every field of every entry on one shared timeline, so
// elements that move together stay locked to each other.
type Morph struct {
	Interpolations []Interpolation
	Length         time.Duration
	Easing         Easing
}

func (m *Morph) Duration() time.Duration { return m.Length }

func (m *Morph) Apply(progress float64) {
	t := m.Easing.Apply(progress)
	for _, in := range m.Interpolations {
		for name, r := range in.Fields {
			in.Element.SetField(name, r.At(t))
		}
	}
}

// FadeAnimation moves opacity between 0 and 1.
type FadeAnimation struct {
	Fades  []Fade
	Length time.Duration
	Easing Easing
}

func (f *FadeAnimation) Duration() time.Duration { return f.Length }

func (f *FadeAnimation) Apply(progress float64) {
	t := f.Easing.Apply(progress)
	for _, fd := range f.Fades {
		if fd.In {
			fd.Element.SetOpacity(t)
		} else {
			fd.Element.SetOpacity(1 - t)
		}
	}
}

// Compound runs its parts side by side and lasts as long as the slowest
// one. Each part reaches its end state after its own duration.
type Compound struct {
	Parts []Animation
}

func (c *Compound) Duration() time.Duration {
	var d time.Duration
	for _, p := range c.Parts {
		d = max(d, p.Duration())
	}
	return d
}

func (c *Compound) Apply(progress float64) {
	total := c.Duration()
	elapsed := progress * float64(total)
	for _, p := range c.Parts {
		pd := p.Duration()
		if pd <= 0 {
			p.Apply(1)
			continue
		}
		p.Apply(min(1, elapsed/float64(pd)))
	}
}
